// Package project implements the field projector: turning a manifest
// view's static and dynamic field declarations into the flat map of
// output fields recorded against an Event or Entity.
package project

import "strings"

// CleanTargetName normalizes a field name the way every projected target
// key is normalized before it reaches storage: trim surrounding
// whitespace, drop a leading "@" (common in export field names borrowed
// from XML/plist attributes), replace "." with "_" so nested-looking
// names don't get mistaken for paths, then lowercase.
func CleanTargetName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "@")
	name = strings.ReplaceAll(name, ".", "_")
	return strings.ToLower(name)
}
