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

package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/sombra-maps/sombra/model"
)

// cachedSource wraps a provider with an on-disk cache of normalized fetch
// results, one zstd-compressed JSON document per distinct query.  Corrupt or
// unreadable entries are treated as misses.
type cachedSource struct {
	inner Source
	dir   string

	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCached(inner Source, dir string) (*cachedSource, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("source: creating cache dir: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &cachedSource{inner: inner, dir: dir, enc: enc, dec: dec}, nil
}

func (s *cachedSource) Kind() Kind { return s.inner.Kind() }

func (s *cachedSource) Available() bool { return s.inner.Available() }

func (s *cachedSource) Fetch(ctx context.Context, center model.LatLng, radius, defaultHeight model.Meters) ([]model.Building, error) {
	path := s.entryPath(center, radius, defaultHeight)

	if buildings, ok := s.read(path); ok {
		return buildings, nil
	}

	buildings, err := s.inner.Fetch(ctx, center, radius, defaultHeight)
	if err != nil {
		return nil, err
	}

	s.write(path, buildings)

	return buildings, nil
}

func (s *cachedSource) entryPath(center model.LatLng, radius, defaultHeight model.Meters) string {
	key := fmt.Sprintf("%s|%s|%s|%s|%s",
		s.inner.Kind(),
		ftoa(float64(center.Lat)), ftoa(float64(center.Lon)),
		ftoa(float64(radius)), ftoa(float64(defaultHeight)))

	sum := sha256.Sum256([]byte(key))

	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json.zst")
}

func (s *cachedSource) read(path string) ([]model.Building, bool) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	raw, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		slog.Warn("discarding corrupt cache entry", "path", path, "error", err)

		return nil, false
	}

	var buildings []model.Building
	if err := json.Unmarshal(raw, &buildings); err != nil {
		slog.Warn("discarding corrupt cache entry", "path", path, "error", err)

		return nil, false
	}

	return buildings, true
}

func (s *cachedSource) write(path string, buildings []model.Building) {
	raw, err := json.Marshal(buildings)
	if err != nil {
		slog.Warn("not caching fetch result", "path", path, "error", err)

		return
	}

	if err := os.WriteFile(path, s.enc.EncodeAll(raw, nil), 0o644); err != nil {
		slog.Warn("not caching fetch result", "path", path, "error", err)
	}
}
