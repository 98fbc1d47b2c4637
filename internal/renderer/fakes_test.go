package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeHandle struct {
	name     string
	released int
}

func (h *fakeHandle) Release() { h.released++ }

// callLog records calls from every fake in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// recordingShader keeps the last staged value per name and logs each call.
type recordingShader struct {
	stage    string
	log      *callLog
	matrices map[string]mgl32.Mat4
	values   map[string]interface{}
	commits  int
}

func newRecordingShader(stage string, log *callLog) *recordingShader {
	return &recordingShader{
		stage:    stage,
		log:      log,
		matrices: make(map[string]mgl32.Mat4),
		values:   make(map[string]interface{}),
	}
}

func (s *recordingShader) SetShader() { s.log.add("%s.SetShader", s.stage) }

func (s *recordingShader) SetMatrix4x4(name string, value mgl32.Mat4) {
	s.matrices[name] = value
	s.log.add("%s.Set %s", s.stage, name)
}

func (s *recordingShader) set(name string, value interface{}) {
	s.values[name] = value
	s.log.add("%s.Set %s", s.stage, name)
}

func (s *recordingShader) SetFloat(name string, value float32)     { s.set(name, value) }
func (s *recordingShader) SetFloat2(name string, value mgl32.Vec2) { s.set(name, value) }
func (s *recordingShader) SetFloat3(name string, value mgl32.Vec3) { s.set(name, value) }
func (s *recordingShader) SetFloat4(name string, value mgl32.Vec4) { s.set(name, value) }
func (s *recordingShader) SetInt(name string, value int32)         { s.set(name, value) }
func (s *recordingShader) SetData(name string, data []byte)        { s.set(name, data) }

func (s *recordingShader) SetShaderResourceView(name string, srv ShaderResourceView) {
	s.values[name] = srv
	s.log.add("%s.Bind %s", s.stage, name)
}

func (s *recordingShader) SetSamplerState(name string, sampler SamplerState) {
	s.values[name] = sampler
	s.log.add("%s.Bind %s", s.stage, name)
}

func (s *recordingShader) CopyAllBufferData() {
	s.commits++
	s.log.add("%s.Commit", s.stage)
}

type fakeMesh struct {
	name  string
	log   *callLog
	draws int
}

func (m *fakeMesh) Name() string     { return m.name }
func (m *fakeMesh) VertexCount() int { return 24 }
func (m *fakeMesh) IndexCount() int  { return 36 }

func (m *fakeMesh) Draw() {
	m.draws++
	m.log.add("Draw %s", m.name)
}

type fakeSamplerFactory struct {
	created []*fakeHandle
	failFor int // fail on this 1-based call, 0 for never
}

func (f *fakeSamplerFactory) CreateSampler(desc SamplerDesc) (SamplerState, error) {
	if f.failFor == len(f.created)+1 {
		f.failFor = -1
		return nil, errors.New("out of sampler objects")
	}
	h := &fakeHandle{name: fmt.Sprintf("%s/%d", desc.Filter, desc.MaxAnisotropy)}
	f.created = append(f.created, h)
	return h, nil
}
