// Copyright 2025 Google LLC
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

package transformers

import "github.com/franTarkenton/bcdc-2-bcdc/catalog"

// validSecurityClasses are the only security_class values the destination
// accepts. Anything else gets mapped to defaultSecurityClass, with one
// named exception for a retired value.
var validSecurityClasses = map[string]struct{}{
	"HIGH-CABINET":      {},
	"HIGH-CLASSIFIED":   {},
	"HIGH-SENSITIVITY":  {},
	"LOW-PUBLIC":        {},
	"LOW-SENSITIVITY":   {},
	"MEDIUM-PERSONAL":   {},
	"MEDIUM-SENSITIVITY": {},
}

const (
	defaultSecurityClass  = "HIGH-SENSITIVITY"
	retiredConfidential   = "HIGH-CONFIDENTIAL"
	remappedConfidential  = "HIGH-CLASSIFIED"
	historicalArchive     = "historicalArchive"
	retentionExpirySentinel = "2222-02-02"
	defaultDownloadAudience = "Public"
)

var validDownloadAudiences = map[string]struct{}{
	"Government":  {},
	"Named users": {},
	"Public":      {},
}

// fixSecurityClass normalizes a retired enum value and falls back any
// other unknown value to the safest class.
func fixSecurityClass(rec map[string]any) (map[string]any, error) {
	val, ok := rec["security_class"].(string)
	if !ok || val == "" {
		return rec, nil
	}
	if _, valid := validSecurityClasses[val]; valid {
		return rec, nil
	}
	if val == retiredConfidential {
		rec["security_class"] = remappedConfidential
	} else {
		rec["security_class"] = defaultSecurityClass
	}

	return rec, nil
}

// fixResourceStatus ensures a historically archived package carries a
// retention expiry date, defaulting to a far-future sentinel (spec.md §8
// scenario S7).
func fixResourceStatus(rec map[string]any) (map[string]any, error) {
	status, _ := rec["resource_status"].(string)
	if status != historicalArchive {
		return rec, nil
	}
	if _, present := rec["retention_expiry_date"]; !present {
		rec["retention_expiry_date"] = retentionExpirySentinel
	}

	return rec, nil
}

// fixDownloadAudience coerces an absent, null, or unrecognized audience
// value to the public default.
func fixDownloadAudience(rec map[string]any) (map[string]any, error) {
	val, present := rec["download_audience"]
	if !present || val == nil {
		rec["download_audience"] = defaultDownloadAudience

		return rec, nil
	}
	str, ok := val.(string)
	if !ok {
		rec["download_audience"] = defaultDownloadAudience

		return rec, nil
	}
	if _, valid := validDownloadAudiences[str]; !valid {
		rec["download_audience"] = defaultDownloadAudience
	}

	return rec, nil
}

// RegisterPackageTransformers registers the three concrete package-kind
// fixups spec.md §4.7 names as examples against r.
func RegisterPackageTransformers(r *Registry) {
	r.Register(catalog.Packages, "fixSecurityClass", fixSecurityClass)
	r.Register(catalog.Packages, "fixResourceStatus", fixResourceStatus)
	r.Register(catalog.Packages, "fixDownloadAudience", fixDownloadAudience)
}
