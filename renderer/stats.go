// renderer/stats.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"
)

// RendererStats encapsulates assorted statistics from rendering a frame.
type RendererStats struct {
	nDrawLists            int
	nBuffers, bufferBytes int
	nDrawCalls, nCulled   int
	nTriangles            int
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d draw lists, %d buffers (%.2f MB), %d draw calls (%d culled), %d tris",
		rs.nDrawLists, rs.nBuffers, float32(rs.bufferBytes)/(1024*1024), rs.nDrawCalls, rs.nCulled, rs.nTriangles)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.nDrawLists += s.nDrawLists
	rs.nBuffers += s.nBuffers
	rs.bufferBytes += s.bufferBytes
	rs.nDrawCalls += s.nDrawCalls
	rs.nCulled += s.nCulled
	rs.nTriangles += s.nTriangles
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_lists", rs.nDrawLists),
		slog.Int("buffers", rs.nBuffers),
		slog.Int("buffer_memory", rs.bufferBytes),
		slog.Int("draw_calls", rs.nDrawCalls),
		slog.Int("culled", rs.nCulled),
		slog.Int("tris", rs.nTriangles),
	)
}

func (rs RendererStats) DrawCalls() int { return rs.nDrawCalls }
func (rs RendererStats) Culled() int    { return rs.nCulled }
