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


package core

import "errors"

// Domain validation errors
var (
	// ErrUnknownCategory indicates a string that matches no known category.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrEmptyURL indicates an article without a URL.
	ErrEmptyURL = errors.New("article URL cannot be empty")

	// ErrEmptyTitle indicates an article without a title.
	ErrEmptyTitle = errors.New("article title cannot be empty")

	// ErrEmptySource indicates an article without a source tag.
	ErrEmptySource = errors.New("article source cannot be empty")
)
