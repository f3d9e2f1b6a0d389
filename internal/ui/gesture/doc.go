// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gesture turns horizontal mouse drags and arrow keys into feed
// decisions. A drag right is "interested", a drag left is "ignored".
package gesture
