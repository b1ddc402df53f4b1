package element

import (
	"bytes"
	"crypto/tls"

	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"

	"github.com/hybridsim/substructure/transport"
)

// Snapshot is the parameter-only persistent form of an element: the scalar
// configuration without live connection state. A restored element dials
// anew on its first Update.
type Snapshot struct {
	Tag         int
	Nodes       []int
	DOF         [][]int
	Address     string
	Port        int
	Transport   string
	DataSize    int
	AddRayleigh bool
	AlphaM      float64
	BetaK       float64
	BetaK0      float64
}

// Snapshot captures the element's configuration.
func (e *Element) Snapshot() *Snapshot {
	return &Snapshot{
		Tag:         e.tag,
		Nodes:       append([]int(nil), e.nodeIDs...),
		DOF:         copyDOFs(e.dofs),
		Address:     e.cfg.Address,
		Port:        e.cfg.Port,
		Transport:   e.cfg.Transport.String(),
		DataSize:    e.cfg.DataSize,
		AddRayleigh: e.cfg.AddRayleigh,
		AlphaM:      e.alphaM,
		BetaK:       e.betaK,
		BetaK0:      e.betaK0,
	}
}

// Marshal - canonical json encoding of Snapshot
func (s *Snapshot) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (s *Snapshot) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	return dec.Decode(s)
}

// FromSnapshot rebuilds an element from its persistent form. The TLS
// configuration, if any, must be supplied again: credentials are not part
// of the snapshot.
func FromSnapshot(s *Snapshot, tlsConf *tls.Config, logger *logrus.Entry) (*Element, error) {
	kind, err := transport.ParseKind(s.Transport)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Address = s.Address
	cfg.Port = s.Port
	cfg.Transport = kind
	cfg.DataSize = s.DataSize
	cfg.AddRayleigh = s.AddRayleigh
	cfg.TLS = tlsConf
	cfg.Logger = logger

	e, err := New(s.Tag, s.Nodes, s.DOF, cfg)
	if err != nil {
		return nil, err
	}
	e.SetRayleighFactors(s.AlphaM, s.BetaK, s.BetaK0)
	return e, nil
}
