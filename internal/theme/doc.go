// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme holds the process-wide theme preference and persists it in
// local storage under the "theme" key.
package theme
