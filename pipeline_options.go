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

package sombra

import (
	"runtime"

	"github.com/sombra-maps/sombra/model"
)

// DefaultNCpu provides the default number of CPUs.
func DefaultNCpu() uint16 {
	cpus := uint16(runtime.GOMAXPROCS(-1))

	return max(cpus-1, 1)
}

// pipelineOptions provides optional configuration parameters for Pipeline construction.
type pipelineOptions struct {
	projector       *Projector   // projector to use, overrides maxShadowLength
	maxShadowLength model.Meters // per-vertex displacement clamp
	nCPU            uint16       // the number of CPUs to use for hour fan-out
}

// PipelineOption configures how we set up the pipeline.
type PipelineOption func(*pipelineOptions)

// WithNCpus lets you set the number of CPUs to use for hour fan-out.
func WithNCpus(n uint16) PipelineOption {
	return func(o *pipelineOptions) {
		o.nCPU = n
	}
}

// WithMaxShadowLength lets you set the clamp on shadow displacement.
func WithMaxShadowLength(m model.Meters) PipelineOption {
	return func(o *pipelineOptions) {
		o.maxShadowLength = m
	}
}

// WithProjector lets you supply a pre-built projector.
func WithProjector(p *Projector) PipelineOption {
	return func(o *pipelineOptions) {
		o.projector = p
	}
}

// defaultPipelineConfig provides a default configuration for pipelines.
var defaultPipelineConfig = pipelineOptions{
	maxShadowLength: DefaultMaxShadowLength,
	nCPU:            DefaultNCpu(),
}
