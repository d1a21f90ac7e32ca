// Copyright 2026 Graceworks
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


package storage

import (
	"fmt"

	"github.com/graceworks/concord/core"
)

// MarshalVerseRecord serializes a VerseRecord to bytes.
func MarshalVerseRecord(record *core.VerseRecord) []byte {
	buf := make([]byte, core.VerseRecordMUS.Size(*record))
	core.VerseRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVerseRecord deserializes a VerseRecord from bytes.
func UnmarshalVerseRecord(data []byte) (*core.VerseRecord, error) {
	record, _, err := core.VerseRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
