package fluidsim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState wraps the GLFW window the host harness draws into. The
// simulation core never touches it directly; it is a collaborator
// resource consumed by mod_input and mod_platform_window (§4.9).
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// GpuState wraps the adapter/device/queue/surface wgpu needs to run both
// the compute pipelines and (out of core scope) any future render
// pipeline.
type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // tell GLFW we don't want OpenGL; wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func createGpuState(s *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "fluidsim device",
		RequiredFeatures: []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery},
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
}

// structToBytes little-endian-packs a POD struct (or slice of one) the
// same way both host writes and device WGSL reads must agree on:
// recursively walking fields/elements and writing each scalar with
// binary.Write. Used for every uniform/storage buffer initializer in
// buffers.go.
func structToBytes(data any) []byte {
	buf := new(bytes.Buffer)
	writeFieldBytes(reflect.ValueOf(data), buf)
	return buf.Bytes()
}

func writeFieldBytes(field reflect.Value, buf *bytes.Buffer) {
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			writeFieldBytes(field.Index(i), buf)
		}
	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			writeFieldBytes(field.Field(i), buf)
		}
	// Unexported fields (the POD records' _pad padding) carry the
	// read-only flag reflect sets on them, so Interface() would panic;
	// Uint/Int/Float read the bits without needing CanInterface.
	case reflect.Uint8:
		writeOrPanic(buf, uint8(field.Uint()))
	case reflect.Uint16:
		writeOrPanic(buf, uint16(field.Uint()))
	case reflect.Uint32:
		writeOrPanic(buf, uint32(field.Uint()))
	case reflect.Uint, reflect.Uint64:
		writeOrPanic(buf, field.Uint())
	case reflect.Int8:
		writeOrPanic(buf, int8(field.Int()))
	case reflect.Int16:
		writeOrPanic(buf, int16(field.Int()))
	case reflect.Int32:
		writeOrPanic(buf, int32(field.Int()))
	case reflect.Float32:
		writeOrPanic(buf, float32(field.Float()))
	case reflect.Float64:
		writeOrPanic(buf, field.Float())
	default:
		panic(fmt.Errorf("unsupported buffer field kind: %v", field.Kind()))
	}
}

func writeOrPanic(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(fmt.Errorf("failed to write field: %w", err))
	}
}

// createUniformBuffer creates a COPY_DST uniform buffer initialised from
// a POD value (§4.4: "uniform buffers carry COPY_DST").
func createUniformBuffer(gpuState *GpuState, label string, data any) *wgpu.Buffer {
	buf, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: structToBytes(data),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buf
}

// createStorageBuffer creates a COPY_SRC|COPY_DST storage buffer
// initialised from POD contents (§4.4: "every storage buffer carries
// COPY_SRC|COPY_DST").
func createStorageBuffer(gpuState *GpuState, label string, data any) *wgpu.Buffer {
	buf, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: structToBytes(data),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buf
}

// createComputePipeline compiles a WGSL module and links it into a
// compute pipeline with an auto-derived bind group layout.
func createComputePipeline(gpuState *GpuState, label, wgslSource, entryPoint string) *wgpu.ComputePipeline {
	shader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgslSource},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	pipeline, err := gpuState.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

// bindGroupLayoutProvider is satisfied by both wgpu.RenderPipeline and
// wgpu.ComputePipeline, letting bind-group construction stay pipeline-
// kind-agnostic.
type bindGroupLayoutProvider interface {
	GetBindGroupLayout(groupIndex uint32) *wgpu.BindGroupLayout
}

func createBindGroup(device *wgpu.Device, pipeline bindGroupLayoutProvider, group uint32, entries []wgpu.BindGroupEntry) *wgpu.BindGroup {
	layout := pipeline.GetBindGroupLayout(group)
	defer layout.Release()

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		panic(err)
	}
	return bindGroup
}

func bufferBinding(binding uint32, buf *wgpu.Buffer) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{Binding: binding, Buffer: buf, Size: wgpu.WholeSize}
}
