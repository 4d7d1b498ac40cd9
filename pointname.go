// Copyright 2025 The Rivaas Authors
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

package logary

import "strings"

// PointName is an ordered sequence of non-empty path segments naming a
// logger, e.g. PointName{"Logary", "Registry"}.
type PointName []string

// NewPointName builds a PointName from segments.
func NewPointName(segments ...string) PointName {
	p := make(PointName, len(segments))
	copy(p, segments)
	return p
}

// String renders the name dot-joined, e.g. "Logary.Registry".
func (p PointName) String() string {
	return strings.Join(p, ".")
}

// Child returns a new PointName with segment appended.
func (p PointName) Child(segment string) PointName {
	child := make(PointName, len(p)+1)
	copy(child, p)
	child[len(p)] = segment
	return child
}

// Equal reports elementwise equality.
func (p PointName) Equal(o PointName) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Less reports lexicographic elementwise ordering.
func (p PointName) Less(o PointName) bool {
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] != o[i] {
			return p[i] < o[i]
		}
	}
	return len(p) < len(o)
}
