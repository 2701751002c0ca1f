/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import "strings"

// Values reported by enums for out-of-range numbers.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum is implemented by small integer enums such as the repository result
// shapes. Invalid values report IllegalValue, IllegalName and IllegalDesc.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// EnumByName returns the valid candidate whose Name equals name, ignoring
// case.
func EnumByName[E BaseEnum](name string, candidates ...E) (E, bool) {
	for _, c := range candidates {
		if c.IsValid() && strings.EqualFold(c.Name(), strings.TrimSpace(name)) {
			return c, true
		}
	}
	var zero E
	return zero, false
}
