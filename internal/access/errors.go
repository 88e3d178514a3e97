// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package access

// Error codes for authorization mutations. All are caller contract
// violations, surfaced immediately and never absorbed.
const (
	CodeDuplicateRole      = "ACCESS_DUPLICATE_ROLE"
	CodeRoleNotFound       = "ACCESS_ROLE_NOT_FOUND"
	CodePermissionNotFound = "ACCESS_PERMISSION_NOT_FOUND"
	CodeInvalidPermission  = "ACCESS_INVALID_PERMISSION"
)
