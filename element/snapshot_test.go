package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybridsim/substructure/common"
)

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "192.0.2.10"
	cfg.Port = 9999
	cfg.DataSize = 512
	cfg.AddRayleigh = true
	cfg.Logger = common.NewTestEntry(t, "element")

	ele, err := New(42, []int{1, 2}, [][]int{{0, 1}, {0}}, cfg)
	require.NoError(t, err)
	ele.SetRayleighFactors(1.5, 0.25, 0)

	snap := ele.Snapshot()
	data, err := snap.Marshal()
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, *snap, got)

	restored, err := FromSnapshot(&got, nil, common.NewTestEntry(t, "element"))
	require.NoError(t, err)

	assert.Equal(t, ele.Tag(), restored.Tag())
	assert.Equal(t, ele.NodeIDs(), restored.NodeIDs())
	assert.Equal(t, ele.NumBasicDOF(), restored.NumBasicDOF())
	assert.Equal(t, cfg.Address, restored.cfg.Address)
	assert.Equal(t, cfg.Port, restored.cfg.Port)
	assert.Equal(t, cfg.DataSize, restored.cfg.DataSize)
	assert.True(t, restored.cfg.AddRayleigh)
	assert.Equal(t, 1.5, restored.alphaM)
	assert.Equal(t, 0.25, restored.betaK)

	// restored elements start unconnected
	assert.Nil(t, restored.sess)
	assert.Equal(t, stateUnconnected, restored.state)
}

func TestFromSnapshotBadTransport(t *testing.T) {
	s := &Snapshot{Tag: 1, Nodes: []int{1}, DOF: [][]int{{0}}, Transport: "carrier-pigeon"}
	_, err := FromSnapshot(s, nil, common.NewTestEntry(t, "element"))
	assert.Error(t, err)
}
