package fsutil

import "bytes"

// ManagedMarkerPrefix starts the comment line identifying files commitscope
// generated and may replace.
const ManagedMarkerPrefix = "# commitscope:managed"

// ManagedMarkerLine is the marker as written into generated hook scripts.
const ManagedMarkerLine = ManagedMarkerPrefix + " (do not edit; remove this line to keep local changes)"

// IsManagedFile checks if data contains the commitscope managed marker.
func IsManagedFile(data []byte) bool {
	return bytes.Contains(data, []byte(ManagedMarkerPrefix))
}
