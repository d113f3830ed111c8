/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package source

import (
	"dirpx.dev/iocx/apis"
)

// RegisterDefaults installs the default adapter chain on reg, in its fixed
// priority order. It runs before user configuration, so explicit user
// registrations and user-added sources always shadow the defaults.
func RegisterDefaults(reg apis.Registry) {
	reg.AddSource(NewIndexedSource())
	reg.AddSource(NewCollectionSource())
	reg.AddSource(NewOwnedSource())
	reg.AddSource(NewMetadataSource())
	reg.AddSource(NewLazySource())
	reg.AddSource(NewFactorySource())
}
