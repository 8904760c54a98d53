// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sombra-maps/sombra/source"
)

func init() {
	RootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List building sources and their availability",
	Long:  "List building sources and whether each can be queried right now",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range source.Kinds() {
			if kind == source.Custom {
				fmt.Printf("%-10s supplied with --buildings\n", kind)

				continue
			}

			src, err := source.New(kind)
			if err != nil {
				log.Fatal(err)
			}

			status := "unavailable"
			if src.Available() {
				status = "available"
			}

			fmt.Printf("%-10s %s\n", kind, status)
		}
	},
}
