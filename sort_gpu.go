package fluidsim

import "github.com/cogentcore/webgpu/wgpu"

// wgslBitonicStage is one compare-and-swap stage of a bitonic sorting
// network over the (keys,indices) pair. The original Rust project sorts
// with the `wgpu_sort` crate's GPU radix sorter; no Go binding for it (or
// any other WGSL-native sort) exists anywhere in the pack, so the
// external sort of §4.5 is hand-implemented here as the standard
// compute-shader bitonic network instead — the textbook approach when no
// sort library is available, and it needs only power-of-two length,
// which N already is (16384 = 2^14).
const wgslBitonicStage = `
struct SortParams {
    j: u32,
    k: u32,
    n: u32,
    _pad: u32,
};

@group(0) @binding(0) var<uniform> params: SortParams;
@group(0) @binding(1) var<storage, read_write> keys: array<u32>;
@group(0) @binding(2) var<storage, read_write> indices: array<u32>;

@compute @workgroup_size(256)
fn bitonic_stage(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.n) { return; }

    let ixj = i ^ params.j;
    if (ixj <= i || ixj >= params.n) { return; }

    let ascending = (i & params.k) == 0u;
    let ki = keys[i];
    let kj = keys[ixj];

    var doSwap = false;
    if (ascending) {
        doSwap = ki > kj;
    } else {
        doSwap = ki < kj;
    }

    if (doSwap) {
        keys[i] = kj;
        keys[ixj] = ki;
        let vi = indices[i];
        let vj = indices[ixj];
        indices[i] = vj;
        indices[ixj] = vi;
    }
}
`

type sortParams struct {
	J    uint32
	K    uint32
	N    uint32
	_pad uint32
}

// GpuSorter runs the bitonic network over bs.Keys/bs.Indices. It is the
// device-side twin of sort.go's SortPairs: same contract (stable-enough
// total order by key, indices permuted alongside), different algorithm,
// since a sorting network is what's practical to hand-write in WGSL.
type GpuSorter struct {
	gpu       *GpuState
	pipeline  *wgpu.ComputePipeline
	bindGroup *wgpu.BindGroup
	params    *wgpu.Buffer
}

func NewGpuSorter(gpu *GpuState, bs *BufferSet) *GpuSorter {
	pipeline := createComputePipeline(gpu, "bitonic_sort", wgslBitonicStage, "bitonic_stage")
	params := createUniformBuffer(gpu, "bitonic sort params", sortParams{N: N})
	bindGroup := createBindGroup(gpu.device, pipeline, 0, []wgpu.BindGroupEntry{
		bufferBinding(0, params),
		bufferBinding(1, bs.Keys),
		bufferBinding(2, bs.Indices),
	})
	return &GpuSorter{gpu: gpu, pipeline: pipeline, bindGroup: bindGroup, params: params}
}

// bitonicStages enumerates the (j,k) compare-distance/direction-block
// pairs of a full bitonic sorting network over n elements, in the order
// they must be dispatched. Split out from Sort so the stage count and
// ordering can be checked without a device.
func bitonicStages(n uint32) [][2]uint32 {
	var stages [][2]uint32
	for k := uint32(2); k <= n; k <<= 1 {
		for j := k / 2; j > 0; j >>= 1 {
			stages = append(stages, [2]uint32{j, k})
		}
	}
	return stages
}

// Sort enqueues every stage of the N-element bitonic network into
// encoder. It is the sortFn DispatchAll invokes between pre_sort and
// post_sort (§4.5); N is fixed and a power of two, so the full
// log2(N)*(log2(N)+1)/2 stage count is known at compile time regardless
// of how many particles are active this frame (pre_sort sentinels the
// inactive tail so it sorts past the end without disturbing it).
func (s *GpuSorter) Sort(encoder *wgpu.CommandEncoder) {
	for _, stage := range bitonicStages(N) {
		j, k := stage[0], stage[1]
		s.gpu.queue.WriteBuffer(s.params, 0, structToBytes(sortParams{J: j, K: k, N: N}))

		pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "bitonic_stage"})
		pass.SetPipeline(s.pipeline)
		pass.SetBindGroup(0, s.bindGroup, nil)
		pass.DispatchWorkgroups(dispatchCount(N), 1, 1)
		pass.End()
	}
}
