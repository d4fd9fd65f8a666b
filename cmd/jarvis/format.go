package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
)

// formatSnapshot renders population counts with a per-category breakdown.
func formatSnapshot(s fleet.Snapshot, marked int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instances: %d total, %d online, %d offline\n", s.Total, s.Online, s.Offline)
	if marked > 0 {
		fmt.Fprintf(&b, "Marked offline by this sweep: %d\n", marked)
	}
	if len(s.ByCategory) == 0 {
		return b.String()
	}

	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	fmt.Fprintf(&b, "\n%-20s %7s %7s %7s\n", "CATEGORY", "TOTAL", "ONLINE", "OFFLINE")
	for _, c := range cats {
		cc := s.ByCategory[c]
		name := c
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(&b, "%-20s %7d %7d %7d\n", name, cc.Total, cc.Online, cc.Offline)
	}
	return b.String()
}

// formatInstances renders one line per instance.
func formatInstances(list []models.Instance) string {
	if len(list) == 0 {
		return "No instances.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-8s %-14s %-10s %s\n", "ID", "STATUS", "CATEGORY", "VERSION", "LAST HEARTBEAT")
	for _, in := range list {
		fmt.Fprintf(&b, "%-24s %-8s %-14s %-10s %s\n",
			in.ID, in.Status, in.Category, in.Version, in.LastHeartbeat.UTC().Format(time.RFC3339))
	}
	return b.String()
}

// firstLine returns the first line of s, truncated for table output.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
