package render

// BufferSink is the GPU-facing consumer of finalized vertex bytes.
// data is the complete vertex block and totalVertices its full count,
// so the sink can size its allocation once even when handed a
// sub-range; startVertex and numVertices select the range to write.
// The gpu package provides the wgpu-backed implementation.
type BufferSink interface {
	Upload(data []byte, totalVertices, data32PerVertex, startVertex, numVertices int) error
}

// IndexSink is the BufferSink counterpart for 16-bit triangle indices.
type IndexSink interface {
	Upload(data []byte, totalIndices, startIndex, numIndices int) error
}
