// Package utils provides small conversion helpers shared across packages.
//
// CMS metadata is written by many plugins and does not always keep numeric
// fields numeric; ToInt normalizes such values after JSON decoding.
package utils
