// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package requests loads and reviews inbound connection requests, and keeps
// the connections list that accepting a request grows.
package requests
