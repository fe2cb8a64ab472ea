package fluidsim

import "github.com/cogentcore/webgpu/wgpu"

// wgslCommon is prepended to every pass's shader source: the shared POD
// layouts, the spatial-hash helpers (§4.2), and the SPH kernels (§4.3),
// expressed in WGSL so the device and the Go CPU reference path
// (spatialhash.go, kernels.go) evaluate the identical formulas.
const wgslCommon = `
struct Settings {
    dtime: f32,
    gravity: f32,
    collision_damping: f32,
    smoothing_radius: f32,
    target_density: f32,
    pressure_multiplier: f32,
    mass: f32,
    interaction_radius: f32,
    interaction_strength: f32,
    viscosity_strength: f32,
    num_particles: u32,
    particle_radius: f32,
    window_size: vec2<f32>,
    _pad1: u32,
    near_pressure_multiplier: f32,
};

struct MouseState {
    position: vec2<f32>,
    clickmask: u32,
    _pad: u32,
};

struct Primitive {
    color: vec4<f32>,
    translate: vec2<f32>,
    z_index: i32,
    _pad: u32,
};

const PREDICTION_LOOKAHEAD: f32 = 0.008333333;
const SCALE: f32 = 100.0;
const MAX_VELOCITY: f32 = 15.0;

fn pos_to_cell(p: vec2<f32>, h: f32) -> vec2<i32> {
    return vec2<i32>(floor(p / h));
}

fn cell_hash(c: vec2<i32>) -> u32 {
    return u32(c.x * 17 + c.y * 31);
}

fn key_from_hash(h: u32, n: u32) -> u32 {
    return h % n;
}

fn smoothing(dist: f32, r: f32) -> f32 {
    if (dist >= r) { return 0.0; }
    let diff = r - dist;
    let vol = 3.14159265 * pow(r, 4.0) / 6.0;
    return diff * diff / vol;
}

fn smoothing_near(dist: f32, r: f32) -> f32 {
    if (dist >= r) { return 0.0; }
    let diff = r - dist;
    let vol = 3.14159265 * pow(r, 5.0) / 10.0;
    return diff * diff * diff / vol;
}

fn smoothing_deriv(dist: f32, r: f32) -> f32 {
    if (dist >= r || dist == 0.0) { return 0.0; }
    let scale = 12.0 / (3.14159265 * pow(r, 4.0));
    return (dist - r) * scale;
}

fn smoothing_near_deriv(dist: f32, r: f32) -> f32 {
    if (dist >= r || dist == 0.0) { return 0.0; }
    let diff = r - dist;
    let scale = 30.0 / (3.14159265 * pow(r, 5.0));
    return -diff * diff * scale;
}

fn viscosity_smoothing(dist: f32, r: f32) -> f32 {
    if (dist >= r) { return 0.0; }
    let diffSq = r * r - dist * dist;
    let vol = 3.14159265 * pow(r, 8.0) / 4.0;
    return diffSq * diffSq * diffSq / vol;
}

// Four-stop velocity colour ramp, matching gradient.go's VelocityGradient.
fn gradient_sample(t: f32) -> vec4<f32> {
    let stops = array<f32, 4>(0.062, 0.48, 0.65, 1.0);
    let colors = array<vec4<f32>, 4>(
        vec4<f32>(27.0 / 255.0, 71.0 / 255.0, 162.0 / 255.0, 1.0),
        vec4<f32>(81.0 / 255.0, 252.0 / 255.0, 147.0 / 255.0, 1.0),
        vec4<f32>(252.0 / 255.0, 237.0 / 255.0, 6.0 / 255.0, 1.0),
        vec4<f32>(239.0 / 255.0, 74.0 / 255.0, 12.0 / 255.0, 1.0),
    );
    if (t <= stops[0]) { return colors[0]; }
    if (t >= stops[3]) { return colors[3]; }
    for (var i = 0; i < 3; i = i + 1) {
        if (t >= stops[i] && t <= stops[i + 1]) {
            let span = stops[i + 1] - stops[i];
            var frac = 0.0;
            if (span > 0.0) { frac = (t - stops[i]) / span; }
            return mix(colors[i], colors[i + 1], frac);
        }
    }
    return colors[3];
}
`


// wgslExternalForces is pass #1.
const wgslExternalForces = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(0) @binding(1) var<uniform> mouse: MouseState;
@group(1) @binding(0) var<storage, read> positions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read_write> velocities: array<vec2<f32>>;

@compute @workgroup_size(256)
fn external_forces(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    if (id >= settings.num_particles) { return; }

    var v = velocities[id];
    v.y = v.y - settings.gravity * settings.dtime;

    let clickmask = mouse.clickmask;
    if (clickmask != 0u) {
        let to_cursor = mouse.position - positions[id];
        let dist = length(to_cursor);
        if (dist < settings.interaction_radius && dist > 0.000001) {
            let dir = to_cursor / dist;
            let falloff = 1.0 - dist / settings.interaction_radius;
            var intensity = 0.0;
            if ((clickmask & 3u) == 1u) { intensity = 1.0; }
            if ((clickmask & 3u) == 2u) { intensity = -1.0; }
            let strength = settings.interaction_strength * falloff * intensity;
            v = v + dir * (strength * settings.dtime);
            let along = dot(dir, v);
            v = v - dir * (along * falloff * settings.dtime);
        }
    }

    velocities[id] = v;
}
`

// wgslUpdatePredictions is pass #2.
const wgslUpdatePredictions = wgslCommon + `
@group(0) @binding(0) var<storage, read> positions: array<vec2<f32>>;
@group(0) @binding(1) var<storage, read> velocities: array<vec2<f32>>;
@group(0) @binding(2) var<storage, read_write> predictions: array<vec2<f32>>;
@group(1) @binding(0) var<uniform> settings: Settings;

@compute @workgroup_size(256)
fn update_predictions(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    if (id >= settings.num_particles) { return; }
    predictions[id] = positions[id] + velocities[id] * PREDICTION_LOOKAHEAD;
}
`

// wgslPreSort is pass #3.
const wgslPreSort = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read> predictions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read_write> keys: array<u32>;
@group(1) @binding(2) var<storage, read_write> indices: array<u32>;
@group(1) @binding(3) var<storage, read_write> starts: array<u32>;

@compute @workgroup_size(256)
fn pre_sort(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    starts[id] = 0xFFFFFFFFu;
    indices[id] = id;
    if (id >= settings.num_particles) {
        // Sentinel so the sorting network pushes inactive tail slots
        // past every real entry without disturbing them (§4.5).
        keys[id] = 0xFFFFFFFFu;
        return;
    }
    let cell = pos_to_cell(predictions[id], settings.smoothing_radius);
    keys[id] = key_from_hash(cell_hash(cell), settings.num_particles);
}
`

// wgslPostSort is pass #4, run after the external (keys,indices) sort.
const wgslPostSort = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read> keys: array<u32>;
@group(1) @binding(1) var<storage, read_write> starts: array<u32>;

@compute @workgroup_size(256)
fn post_sort(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    if (id >= settings.num_particles) { return; }
    if (id == 0u || keys[id] != keys[id - 1u]) {
        starts[keys[id]] = id;
    }
}
`

// wgslUpdateDensities is pass #5.
const wgslUpdateDensities = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read> predictions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read> indices: array<u32>;
@group(1) @binding(2) var<storage, read> keys: array<u32>;
@group(1) @binding(3) var<storage, read> starts: array<u32>;
@group(2) @binding(0) var<storage, read_write> densities: array<vec2<f32>>;

@compute @workgroup_size(256)
fn update_densities(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    let n = settings.num_particles;
    if (id >= n) { return; }

    let r = settings.smoothing_radius;
    let p = predictions[id];
    let cell = pos_to_cell(p, r);

    var density = 0.0;
    var near_density = 0.0;
    for (var oy: i32 = -1; oy <= 1; oy = oy + 1) {
        for (var ox: i32 = -1; ox <= 1; ox = ox + 1) {
            let key = key_from_hash(cell_hash(cell + vec2<i32>(ox, oy)), n);
            var i = starts[key];
            if (i == 0xFFFFFFFFu) { continue; }
            loop {
                if (i >= n || keys[i] != key) { break; }
                let j = indices[i];
                let d = length(predictions[j] - p);
                density = density + settings.mass * smoothing(d, r);
                near_density = near_density + settings.mass * smoothing_near(d, r);
                i = i + 1u;
            }
        }
    }

    densities[id] = vec2<f32>(density, near_density);
}
`

// wgslPressureForce is pass #6.
const wgslPressureForce = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read> predictions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read_write> velocities: array<vec2<f32>>;
@group(1) @binding(2) var<storage, read> densities: array<vec2<f32>>;
@group(2) @binding(0) var<storage, read> indices: array<u32>;
@group(2) @binding(1) var<storage, read> keys: array<u32>;
@group(2) @binding(2) var<storage, read> starts: array<u32>;

fn pressure_direction(seed: f32) -> vec2<f32> {
    return normalize(vec2<f32>(cos(seed), sin(seed)));
}

@compute @workgroup_size(256)
fn pressure_force(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    let n = settings.num_particles;
    if (id >= n) { return; }

    let r = settings.smoothing_radius;
    let p = predictions[id];
    let cell = pos_to_cell(p, r);
    let density_i = densities[id];
    let pressure_i = (density_i.x - settings.target_density) * settings.pressure_multiplier;
    let near_pressure_i = density_i.y * settings.near_pressure_multiplier;

    var force = vec2<f32>(0.0, 0.0);
    for (var oy: i32 = -1; oy <= 1; oy = oy + 1) {
        for (var ox: i32 = -1; ox <= 1; ox = ox + 1) {
            let key = key_from_hash(cell_hash(cell + vec2<i32>(ox, oy)), n);
            var i = starts[key];
            if (i == 0xFFFFFFFFu) { continue; }
            loop {
                if (i >= n || keys[i] != key) { break; }
                let j = indices[i];
                if (j == id) { i = i + 1u; continue; }

                let offset = predictions[j] - p;
                let dist = length(offset);
                if (dist >= r) { i = i + 1u; continue; }

                var dir = vec2<f32>(0.0, 0.0);
                if (dist < 0.000001) {
                    dir = pressure_direction(density_i.x);
                } else {
                    dir = offset / dist;
                }

                let density_j = densities[j];
                let pressure_j = (density_j.x - settings.target_density) * settings.pressure_multiplier;
                let near_pressure_j = density_j.y * settings.near_pressure_multiplier;

                let shared_pressure = (pressure_i + pressure_j) * 0.5;
                let shared_near_pressure = (near_pressure_i + near_pressure_j) * 0.5;

                if (density_j.x > 0.00000001) {
                    force = force + dir * (shared_pressure * smoothing_deriv(dist, r) / density_j.x);
                }
                if (density_j.y > 0.00000001) {
                    force = force + dir * (shared_near_pressure * smoothing_near_deriv(dist, r) / density_j.y);
                }

                i = i + 1u;
            }
        }
    }

    if (density_i.x > 0.00000001) {
        velocities[id] = velocities[id] + (force / density_i.x) * (settings.dtime / settings.mass);
    }
}
`

// wgslViscosity is pass #7.
const wgslViscosity = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read> predictions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read_write> velocities: array<vec2<f32>>;
@group(2) @binding(0) var<storage, read> indices: array<u32>;
@group(2) @binding(1) var<storage, read> keys: array<u32>;
@group(2) @binding(2) var<storage, read> starts: array<u32>;

@compute @workgroup_size(256)
fn viscosity(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    let n = settings.num_particles;
    if (id >= n) { return; }

    let r = settings.smoothing_radius;
    let p = predictions[id];
    let v_i = velocities[id];
    let cell = pos_to_cell(p, r);

    var sum = vec2<f32>(0.0, 0.0);
    for (var oy: i32 = -1; oy <= 1; oy = oy + 1) {
        for (var ox: i32 = -1; ox <= 1; ox = ox + 1) {
            let key = key_from_hash(cell_hash(cell + vec2<i32>(ox, oy)), n);
            var i = starts[key];
            if (i == 0xFFFFFFFFu) { continue; }
            loop {
                if (i >= n || keys[i] != key) { break; }
                let j = indices[i];
                if (j != id) {
                    let d = length(predictions[j] - p);
                    let w = viscosity_smoothing(d, r);
                    sum = sum + (velocities[j] - v_i) * w;
                }
                i = i + 1u;
            }
        }
    }

    velocities[id] = v_i + sum * (settings.viscosity_strength * settings.dtime);
}
`

// wgslUpdatePositions is pass #8.
const wgslUpdatePositions = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read_write> positions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read> velocities: array<vec2<f32>>;

@compute @workgroup_size(256)
fn update_positions(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    if (id >= settings.num_particles) { return; }
    positions[id] = positions[id] + velocities[id] * settings.dtime;
}
`

// wgslCollide is pass #9.
const wgslCollide = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read_write> positions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read_write> velocities: array<vec2<f32>>;

@compute @workgroup_size(256)
fn collide(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    if (id >= settings.num_particles) { return; }

    var p = positions[id];
    var v = velocities[id];
    let half = settings.window_size / (2.0 * SCALE) - settings.particle_radius;

    if (p.x < -half.x || p.x > half.x) {
        p.x = sign(p.x) * half.x;
        v.x = -v.x * settings.collision_damping;
    }
    if (p.y < -half.y || p.y > half.y) {
        p.y = sign(p.y) * half.y;
        v.y = -v.y * settings.collision_damping;
    }

    positions[id] = p;
    velocities[id] = v;
}
`

// wgslCopyPrims is pass #10 (named copy_prims in the pass table).
const wgslCopyPrims = wgslCommon + `
@group(0) @binding(0) var<uniform> settings: Settings;
@group(1) @binding(0) var<storage, read> positions: array<vec2<f32>>;
@group(1) @binding(1) var<storage, read> velocities: array<vec2<f32>>;
@group(1) @binding(2) var<storage, read_write> primitives: array<Primitive>;

@compute @workgroup_size(256)
fn copy_prims(@builtin(global_invocation_id) gid: vec3<u32>) {
    let id = gid.x;
    if (id >= settings.num_particles) { return; }

    let speed = min(length(velocities[id]), MAX_VELOCITY);
    let t = speed / MAX_VELOCITY;

    var prim = primitives[id];
    prim.translate = positions[id] * SCALE;
    prim.color = gradient_sample(t);
    primitives[id] = prim;
}
`

// Pipelines owns the ten compiled compute pipelines and their bind
// groups, all wired against one BufferSet (§4.6).
type Pipelines struct {
	gpu *GpuState
	bs  *BufferSet

	externalForces    *wgpu.ComputePipeline
	updatePredictions *wgpu.ComputePipeline
	preSort           *wgpu.ComputePipeline
	postSort          *wgpu.ComputePipeline
	updateDensities   *wgpu.ComputePipeline
	pressureForce     *wgpu.ComputePipeline
	viscosity         *wgpu.ComputePipeline
	updatePositions   *wgpu.ComputePipeline
	collide           *wgpu.ComputePipeline
	copyPrims         *wgpu.ComputePipeline

	bindGroups map[string]map[uint32]*wgpu.BindGroup
}

// passOrder is every pipeline in dispatch order, paired with the timestamp
// slot index the frame driver writes into (§4.8). "sort" has no entry:
// it runs between pre_sort and post_sort but is not itself a timestamped
// compute pass (§2, "between dispatch #3 and #4").
var passOrder = []string{
	"external_forces", "update_predictions", "pre_sort",
	"post_sort", "update_densities", "pressure_force",
	"viscosity", "update_positions", "collide", "copy_prims",
}

func (p *Pipelines) pipelineFor(name string) *wgpu.ComputePipeline {
	switch name {
	case "external_forces":
		return p.externalForces
	case "update_predictions":
		return p.updatePredictions
	case "pre_sort":
		return p.preSort
	case "post_sort":
		return p.postSort
	case "update_densities":
		return p.updateDensities
	case "pressure_force":
		return p.pressureForce
	case "viscosity":
		return p.viscosity
	case "update_positions":
		return p.updatePositions
	case "collide":
		return p.collide
	case "copy_prims":
		return p.copyPrims
	default:
		panic("unknown pass: " + name)
	}
}

func (p *Pipelines) buildBindGroups() {
	bs := p.bs
	device := p.gpu.device
	bg := func(pipeline bindGroupLayoutProvider, group uint32, entries ...wgpu.BindGroupEntry) *wgpu.BindGroup {
		return createBindGroup(device, pipeline, group, entries)
	}

	p.bindGroups = map[string]map[uint32]*wgpu.BindGroup{
		"external_forces": {
			0: bg(p.externalForces, 0, bufferBinding(0, bs.Settings), bufferBinding(1, bs.Mouse)),
			1: bg(p.externalForces, 1, bufferBinding(0, bs.Positions), bufferBinding(1, bs.Velocities)),
		},
		"update_predictions": {
			0: bg(p.updatePredictions, 0, bufferBinding(0, bs.Positions), bufferBinding(1, bs.Velocities), bufferBinding(2, bs.Predictions)),
			1: bg(p.updatePredictions, 1, bufferBinding(0, bs.Settings)),
		},
		"pre_sort": {
			0: bg(p.preSort, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.preSort, 1, bufferBinding(0, bs.Predictions), bufferBinding(1, bs.Keys), bufferBinding(2, bs.Indices), bufferBinding(3, bs.Starts)),
		},
		"post_sort": {
			0: bg(p.postSort, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.postSort, 1, bufferBinding(0, bs.Keys), bufferBinding(1, bs.Starts)),
		},
		"update_densities": {
			0: bg(p.updateDensities, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.updateDensities, 1, bufferBinding(0, bs.Predictions), bufferBinding(1, bs.Indices), bufferBinding(2, bs.Keys), bufferBinding(3, bs.Starts)),
			2: bg(p.updateDensities, 2, bufferBinding(0, bs.Densities)),
		},
		"pressure_force": {
			0: bg(p.pressureForce, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.pressureForce, 1, bufferBinding(0, bs.Predictions), bufferBinding(1, bs.Velocities), bufferBinding(2, bs.Densities)),
			2: bg(p.pressureForce, 2, bufferBinding(0, bs.Indices), bufferBinding(1, bs.Keys), bufferBinding(2, bs.Starts)),
		},
		"viscosity": {
			0: bg(p.viscosity, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.viscosity, 1, bufferBinding(0, bs.Predictions), bufferBinding(1, bs.Velocities)),
			2: bg(p.viscosity, 2, bufferBinding(0, bs.Indices), bufferBinding(1, bs.Keys), bufferBinding(2, bs.Starts)),
		},
		"update_positions": {
			0: bg(p.updatePositions, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.updatePositions, 1, bufferBinding(0, bs.Positions), bufferBinding(1, bs.Velocities)),
		},
		"collide": {
			0: bg(p.collide, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.collide, 1, bufferBinding(0, bs.Positions), bufferBinding(1, bs.Velocities)),
		},
		"copy_prims": {
			0: bg(p.copyPrims, 0, bufferBinding(0, bs.Settings)),
			1: bg(p.copyPrims, 1, bufferBinding(0, bs.Positions), bufferBinding(1, bs.Velocities), bufferBinding(2, bs.Primitives)),
		},
	}
}

// NewPipelines compiles and links every pass's compute pipeline. Pipeline
// creation failure is fatal at init (§7): CreateComputePipeline panics on
// error and this constructor does not recover from it.
func NewPipelines(gpu *GpuState, bs *BufferSet) *Pipelines {
	p := &Pipelines{
		gpu: gpu,
		bs:  bs,

		externalForces:    createComputePipeline(gpu, "external_forces", wgslExternalForces, "external_forces"),
		updatePredictions: createComputePipeline(gpu, "update_predictions", wgslUpdatePredictions, "update_predictions"),
		preSort:           createComputePipeline(gpu, "pre_sort", wgslPreSort, "pre_sort"),
		postSort:          createComputePipeline(gpu, "post_sort", wgslPostSort, "post_sort"),
		updateDensities:   createComputePipeline(gpu, "update_densities", wgslUpdateDensities, "update_densities"),
		pressureForce:     createComputePipeline(gpu, "pressure_force", wgslPressureForce, "pressure_force"),
		viscosity:         createComputePipeline(gpu, "viscosity", wgslViscosity, "viscosity"),
		updatePositions:   createComputePipeline(gpu, "update_positions", wgslUpdatePositions, "update_positions"),
		collide:           createComputePipeline(gpu, "collide", wgslCollide, "collide"),
		copyPrims:         createComputePipeline(gpu, "copy_prims", wgslCopyPrims, "copy_prims"),
	}
	p.buildBindGroups()
	return p
}

// DispatchAll runs the full ten-pass sequence (with the external sort
// slotted between pre_sort and post_sort) into encoder, timestamping
// each pass. Every pass dispatches over the full N, not just the active
// particle count: each kernel (other than pre_sort, which instead
// sentinels the inactive tail) early-exits past settings.num_particles,
// and the sort network needs the full power-of-two length regardless of
// how many particles are active this frame (§4.5). sortFn performs the
// (keys,indices) sort on the device; it is supplied by the caller
// because the sort itself is not one of the ten bind-group-driven
// passes.
func (p *Pipelines) DispatchAll(encoder *wgpu.CommandEncoder, sortFn func(encoder *wgpu.CommandEncoder)) {
	for i, name := range passOrder {
		dispatchOne(encoder, p.pipelineFor(name), p.bindGroups[name], N, p.bs.QuerySet, uint32(i))
		if name == "pre_sort" {
			sortFn(encoder)
		}
	}
}

func dispatchCount(n uint32) uint32 {
	return (n + W - 1) / W
}

// dispatchOne runs a single pass in its own compute pass, timestamping
// before and after into slots 2*passIndex / 2*passIndex+1 (§4.8).
func dispatchOne(encoder *wgpu.CommandEncoder, pipeline *wgpu.ComputePipeline, bindGroups map[uint32]*wgpu.BindGroup, n uint32, querySet *wgpu.QuerySet, passIndex uint32) {
	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{
		TimestampWrites: &wgpu.ComputePassTimestampWrites{
			QuerySet:                  querySet,
			BeginningOfPassWriteIndex: 2 * passIndex,
			EndOfPassWriteIndex:       2*passIndex + 1,
		},
	})
	pass.SetPipeline(pipeline)
	for group, bg := range bindGroups {
		pass.SetBindGroup(group, bg, nil)
	}
	pass.DispatchWorkgroups(dispatchCount(n), 1, 1)
	pass.End()
}
