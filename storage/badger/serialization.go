// Copyright 2025 Techpress Media
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

package badger

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"

	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/storage"
)

// vectorEntry is the stored value for one indexed URL.
type vectorEntry struct {
	URL    string
	Vector []float32
	Meta   storage.VectorMeta
}

var (
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
	vectorEntryMUS  = vectorEntrySer{}
)

// vectorEntrySer is a hand-written MUS serializer for vectorEntry.
type vectorEntrySer struct{}

func (vectorEntrySer) Marshal(e vectorEntry, bs []byte) (n int) {
	n = ord.String.Marshal(e.URL, bs)
	n += float32SliceMUS.Marshal(e.Vector, bs[n:])
	n += ord.String.Marshal(e.Meta.ID, bs[n:])
	n += ord.String.Marshal(e.Meta.Title, bs[n:])
	n += ord.String.Marshal(string(e.Meta.Category), bs[n:])
	return n
}

func (vectorEntrySer) Unmarshal(bs []byte) (e vectorEntry, n int, err error) {
	var n1 int
	e.URL, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	e.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Meta.ID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Meta.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var category string
	category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	e.Meta.Category = core.Category(category)
	return
}

func (vectorEntrySer) Size(e vectorEntry) (size int) {
	size = ord.String.Size(e.URL)
	size += float32SliceMUS.Size(e.Vector)
	size += ord.String.Size(e.Meta.ID)
	size += ord.String.Size(e.Meta.Title)
	size += ord.String.Size(string(e.Meta.Category))
	return size
}

func (s vectorEntrySer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// marshalVectorEntry serializes a vectorEntry to bytes.
func marshalVectorEntry(e vectorEntry) []byte {
	buf := make([]byte, vectorEntryMUS.Size(e))
	vectorEntryMUS.Marshal(e, buf)
	return buf
}

// unmarshalVectorEntry deserializes a vectorEntry from bytes.
func unmarshalVectorEntry(data []byte) (vectorEntry, error) {
	e, _, err := vectorEntryMUS.Unmarshal(data)
	if err != nil {
		return vectorEntry{}, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}
	return e, nil
}
