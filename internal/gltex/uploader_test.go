package gltex

import (
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/texbank"
	"github.com/Faultbox/texpaint/internal/texture"
)

type fakeDevice struct {
	next    uint32
	created int
	updates []bool
	deleted []uint32
	fail    error
}

func (d *fakeDevice) Create(*texture.Texture) (uint32, error) {
	if d.fail != nil {
		return 0, d.fail
	}
	d.next++
	d.created++
	return d.next, nil
}

func (d *fakeDevice) Update(_ uint32, _ *texture.Texture, resized bool) error {
	d.updates = append(d.updates, resized)
	return d.fail
}

func (d *fakeDevice) Delete(ids []uint32) {
	d.deleted = append(d.deleted, ids...)
}

func newTex(size int) *texture.Texture {
	return texture.New(imaging.New(size, size, color.NRGBA{A: 0xff}))
}

func TestUploaderSync(t *testing.T) {
	dev := &fakeDevice{}
	u := NewUploader(dev, nil)
	tex := newTex(4)

	u.TextureCreated(tex)
	u.TextureCreated(tex)
	_, ok := u.Handle(tex)
	assert.False(t, ok, "no handle before the first sync")

	require.NoError(t, u.Sync())
	id, ok := u.Handle(tex)
	require.True(t, ok)
	assert.Equal(t, uint32(1), id)
	assert.False(t, tex.NeedsUpdate())
	assert.Equal(t, 1, dev.created)

	require.NoError(t, u.Sync())
	assert.Empty(t, dev.updates, "clean textures are skipped")

	tex.MarkDirty()
	require.NoError(t, u.Sync())
	assert.Equal(t, []bool{false}, dev.updates)

	u.TextureReleased(tex)
	assert.Equal(t, 0, u.Len())
	require.NoError(t, u.Sync())
	assert.Equal(t, []uint32{1}, dev.deleted)
}

func TestUploaderRetriesFailures(t *testing.T) {
	dev := &fakeDevice{fail: errors.New("out of memory")}
	u := NewUploader(dev, nil)
	a, b := newTex(2), newTex(2)
	u.TextureCreated(a)
	u.TextureCreated(b)

	err := u.Sync()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, a.NeedsUpdate())

	dev.fail = nil
	require.NoError(t, u.Sync())
	assert.False(t, a.NeedsUpdate())
	assert.Equal(t, 2, dev.created)
}

func TestUploaderFollowsBank(t *testing.T) {
	dev := &fakeDevice{}
	u := NewUploader(dev, nil)
	bank := texbank.New(nil, 0)
	require.NoError(t, bank.Ensure("base", texbank.Res1024))
	pre := bank.CreateLayer("base", "custom_1", "Custom Texture 1", true)

	bank.SetObserver(u)
	assert.Equal(t, 1, u.Len(), "existing layers are replayed")
	require.NoError(t, u.Sync())

	mesh := NewMesh("body")
	target := &material.Target{ID: "base", Meshes: []material.MeshHandle{mesh}}
	require.True(t, bank.SelectLayer(target, "custom_1"))
	assert.Same(t, pre.Texture(), mesh.Primary().ColorMap())

	require.NoError(t, bank.ChangeResolution(t.Context(), target, texbank.Res2048))
	assert.Equal(t, 1, u.Len())
	require.NoError(t, u.Sync())
	assert.Equal(t, []uint32{1}, dev.deleted)
	id, ok := u.Handle(mesh.Primary().ColorMap())
	require.True(t, ok)
	assert.Equal(t, uint32(2), id)

	bank.Drop("base")
	u.Close()
	assert.Equal(t, []uint32{1, 2}, dev.deleted)
}

func TestMaterialVersion(t *testing.T) {
	m := NewMaterial()
	var pm material.PaintableMaterial = m
	pm.SetRoughness(0.8)
	pm.MarkDirty()
	assert.Equal(t, 0.8, m.Roughness())
	assert.Equal(t, uint64(1), m.Version())
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, m.BaseColor())
}
