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

package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	overpass "github.com/MeKo-Christian/go-overpass"
	"github.com/stretchr/testify/assert"

	"github.com/sombra-maps/sombra/model"
	"github.com/sombra-maps/sombra/source"
)

func cachedOSM(t *testing.T, dir string) (source.Source, *fakeQuerier) {
	t.Helper()

	querier := &fakeQuerier{
		buildings: overpass.Result{
			Ways: map[int64]*overpass.Way{
				1: way(1, map[string]string{"building": "yes", "height": "25"},
					triangleNodes(40.4155, -3.7074)),
			},
		},
	}

	src, err := source.New(source.OSM,
		source.WithQuerier(querier),
		source.WithCacheDir(dir))
	assert.NoError(t, err)

	return src, querier
}

func TestCacheHitSkipsProvider(t *testing.T) {
	dir := t.TempDir()
	src, querier := cachedOSM(t, dir)

	first, err := src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)

	queriesAfterMiss := len(querier.queries)
	assert.NotZero(t, queriesAfterMiss)

	second, err := src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)

	// The second fetch is served from disk.
	assert.Len(t, querier.queries, queriesAfterMiss)
	assert.Equal(t, first, second)
}

func TestCacheKeyedByQuery(t *testing.T) {
	dir := t.TempDir()
	src, querier := cachedOSM(t, dir)

	_, err := src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)

	queriesAfterMiss := len(querier.queries)

	// A different radius is a different entry.
	_, err = src.Fetch(context.Background(), plazaMayor, 500, model.DefaultHeight)
	assert.NoError(t, err)
	assert.Greater(t, len(querier.queries), queriesAfterMiss)
}

func TestCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	src, _ := cachedOSM(t, dir)
	first, err := src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)

	// A fresh source over the same directory, with a querier that would fail.
	reopened, err := source.New(source.OSM,
		source.WithQuerier(&fakeQuerier{err: assert.AnError}),
		source.WithCacheDir(dir))
	assert.NoError(t, err)

	second, err := reopened.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	dir := t.TempDir()
	src, querier := cachedOSM(t, dir)

	_, err := src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)

	queriesAfterMiss := len(querier.queries)

	entries, err := filepath.Glob(filepath.Join(dir, "*.json.zst"))
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)

	for _, entry := range entries {
		assert.NoError(t, os.WriteFile(entry, []byte("not zstd"), 0o644))
	}

	_, err = src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.NoError(t, err)
	assert.Greater(t, len(querier.queries), queriesAfterMiss)
}

func TestCachePreservesProviderErrors(t *testing.T) {
	src, err := source.New(source.OSM,
		source.WithQuerier(&fakeQuerier{}),
		source.WithCacheDir(t.TempDir()))
	assert.NoError(t, err)

	assert.Equal(t, source.OSM, src.Kind())
	assert.True(t, src.Available())

	// Empty results are not cached; the sentinel passes through.
	_, err = src.Fetch(context.Background(), plazaMayor, 300, model.DefaultHeight)
	assert.ErrorIs(t, err, source.ErrNoDataFound)
}
