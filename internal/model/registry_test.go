package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoaderLeavesMissingArtifactUnloaded(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "unet_flood_final.onnx")
	require.NoError(t, os.WriteFile(present, []byte("graph"), 0o644))

	core, logs := observer.New(zapcore.InfoLevel)
	var opened []Artifact
	loader := NewLoader(func(a Artifact) (Runner, error) {
		opened = append(opened, a)
		return &fakeRunner{}, nil
	}, Dispatch{Mode: DispatchSerialized}, zap.New(core))

	registry := loader.Load([]Artifact{
		{Selector: UNet, Path: present},
		{Selector: MobileNet, Path: filepath.Join(dir, "unet_mnv2_final.onnx")},
	})
	defer registry.Close()

	assert.True(t, registry.Loaded(UNet))
	assert.False(t, registry.Loaded(MobileNet))
	require.Len(t, opened, 1)
	assert.Equal(t, UNet, opened[0].Selector)

	assert.Equal(t, 1, logs.FilterMessage("error loading model").Len())
	assert.Equal(t, 1, logs.FilterMessage("model loaded").Len())

	// Loading state is fixed for the life of the registry.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unet_mnv2_final.onnx"), []byte("graph"), 0o644))
	assert.False(t, registry.Loaded(MobileNet))
}

func TestLoaderFactoryFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0o644))

	loader := NewLoader(func(Artifact) (Runner, error) {
		return nil, os.ErrInvalid
	}, Dispatch{Mode: DispatchSerialized}, zap.NewNop())

	registry := loader.Load([]Artifact{{Selector: UNet, Path: path}, {Selector: MobileNet, Path: dir}})
	assert.False(t, registry.Loaded(UNet))
	assert.False(t, registry.Loaded(MobileNet))
	assert.NoError(t, registry.Close())
}

func TestRegistryGetPredicts(t *testing.T) {
	registry := NewRegistry(map[Selector]Predictor{
		UNet:      NewWorker(&fakeRunner{}),
		MobileNet: nil,
	})
	defer registry.Close()

	p, ok := registry.Get(UNet)
	require.True(t, ok)
	out, err := p.Predict(context.Background(), []float32{0.25})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, out)

	_, ok = registry.Get(MobileNet)
	assert.False(t, ok)
}

func TestParseSelector(t *testing.T) {
	sel, ok := ParseSelector("unet")
	assert.True(t, ok)
	assert.Equal(t, UNet, sel)
	assert.Equal(t, "U-Net", sel.DisplayName())

	sel, ok = ParseSelector("unet_mobilenet")
	assert.True(t, ok)
	assert.Equal(t, "U-Net + MobileNet", sel.DisplayName())

	_, ok = ParseSelector("bogus")
	assert.False(t, ok)
	_, ok = ParseSelector("")
	assert.False(t, ok)
}
