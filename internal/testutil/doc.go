// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail the test on error,
// removing the file-system boilerplate from fixture setup.
package testutil
