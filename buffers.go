package fluidsim

import "github.com/cogentcore/webgpu/wgpu"

// numPasses is the number of compute dispatches the frame driver times:
// every pipeline pass in §4.6's table, external_forces through
// copy_prims. The external sort is not its own timestamped dispatch
// boundary — it runs between pre_sort and post_sort.
const numPasses = 10

// BufferSet owns every device buffer the ten compute passes read or
// write, all sized to N (§4.4). It is created once at device
// initialisation and its lifetime equals the frame driver's; compute
// pipelines bind to these buffers by handle and never recreate them.
type BufferSet struct {
	gpu *GpuState

	Settings *wgpu.Buffer
	Mouse    *wgpu.Buffer

	Positions   *wgpu.Buffer
	Predictions *wgpu.Buffer
	Velocities  *wgpu.Buffer
	Densities   *wgpu.Buffer

	Keys    *wgpu.Buffer
	Indices *wgpu.Buffer
	Starts  *wgpu.Buffer

	Primitives *wgpu.Buffer

	QuerySet      *wgpu.QuerySet
	QueryReadback *wgpu.Buffer
}

// NewBufferSet allocates and zero/sentinel-initialises every buffer in
// §3, plus the timestamp query set of size 2*numPasses and its matching
// staging readback buffer (§4.4, §4.8).
func NewBufferSet(gpu *GpuState, settings Settings, mouse MouseState) *BufferSet {
	zeroVec2 := make([]float32, 2*N)
	sentinelU32 := make([]uint32, N)
	for i := range sentinelU32 {
		sentinelU32[i] = Sentinel
	}

	bs := &BufferSet{
		gpu: gpu,

		Settings: createUniformBuffer(gpu, "settings", settings),
		Mouse:    createUniformBuffer(gpu, "mouse", mouse),

		Positions:   createStorageBuffer(gpu, "positions", zeroVec2),
		Predictions: createStorageBuffer(gpu, "predictions", zeroVec2),
		Velocities:  createStorageBuffer(gpu, "velocities", zeroVec2),
		Densities:   createStorageBuffer(gpu, "densities", zeroVec2),

		Keys:    createStorageBuffer(gpu, "keys", make([]uint32, N)),
		Indices: createStorageBuffer(gpu, "indices", sentinelU32),
		Starts:  createStorageBuffer(gpu, "starts", sentinelU32),

		Primitives: createStorageBuffer(gpu, "primitives", make([]Primitive, N)),
	}

	querySet, err := gpu.device.CreateQuerySet(&wgpu.QuerySetDescriptor{
		Label: "fluidsim timestamps",
		Type:  wgpu.QueryTypeTimestamp,
		Count: 2 * numPasses,
	})
	if err != nil {
		panic(err)
	}
	bs.QuerySet = querySet

	readback, err := gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "fluidsim timestamp readback",
		Size:             uint64(2 * numPasses * 8),
		Usage:            wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(err)
	}
	bs.QueryReadback = readback

	return bs
}

// ResetIndices bulk-reinitialises indices/starts to the sentinel value,
// matching the reset contract in §3 ("fills ... indices/keys with their
// zero/sentinel values").
func (bs *BufferSet) ResetIndices() {
	sentinelU32 := make([]uint32, N)
	for i := range sentinelU32 {
		sentinelU32[i] = Sentinel
	}
	bs.gpu.queue.WriteBuffer(bs.Indices, 0, structToBytes(sentinelU32))
	bs.gpu.queue.WriteBuffer(bs.Starts, 0, structToBytes(sentinelU32))
	bs.gpu.queue.WriteBuffer(bs.Keys, 0, structToBytes(make([]uint32, N)))
}

func (bs *BufferSet) WriteSettings(s Settings) {
	bs.gpu.queue.WriteBuffer(bs.Settings, 0, structToBytes(s))
}

func (bs *BufferSet) WriteMouse(m MouseState) {
	bs.gpu.queue.WriteBuffer(bs.Mouse, 0, structToBytes(m))
}

func (bs *BufferSet) WritePositions(positions []float32) {
	bs.gpu.queue.WriteBuffer(bs.Positions, 0, structToBytes(positions))
}
