// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate checks form input before anything is sent to the backend.
// Failures come back as FieldErrors keyed by the JSON field name so views can
// render them inline next to the offending input.
package validate
