package store

import (
	"github.com/chazu/vumesh/pkg/vu"
	"github.com/pkg/errors"
	"github.com/tinylib/msgp/msgp"
)

// codecVersion leads every encoded snapshot.
const codecVersion uint32 = 1

// fieldsPerNode is the array length of one encoded node.
const fieldsPerNode = 7

// ErrBadEncoding is returned when stored bytes are not a snapshot this
// package wrote.
var ErrBadEncoding = errors.New("store: bad snapshot encoding")

// MarshalSnapshot encodes s as MessagePack:
//
//	[version, [[fs, vs, mask, user, x, y, z], ...]]
func MarshalSnapshot(s vu.Snapshot) []byte {
	b := make([]byte, 0, 16+len(s.Nodes)*(fieldsPerNode*9+1))
	b = msgp.AppendArrayHeader(b, 2)
	b = msgp.AppendUint32(b, codecVersion)
	b = msgp.AppendArrayHeader(b, uint32(len(s.Nodes)))
	for _, n := range s.Nodes {
		b = msgp.AppendArrayHeader(b, fieldsPerNode)
		b = msgp.AppendInt32(b, n.FS)
		b = msgp.AppendInt32(b, n.VS)
		b = msgp.AppendUint32(b, uint32(n.Mask))
		b = msgp.AppendInt64(b, n.User)
		b = msgp.AppendFloat64(b, n.X)
		b = msgp.AppendFloat64(b, n.Y)
		b = msgp.AppendFloat64(b, n.Z)
	}
	return b
}

// UnmarshalSnapshot decodes bytes written by MarshalSnapshot. It checks
// the layout only; vu.Import checks the topology.
func UnmarshalSnapshot(b []byte) (vu.Snapshot, error) {
	var s vu.Snapshot
	sz, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return s, errors.Wrap(ErrBadEncoding, err.Error())
	}
	if sz != 2 {
		return s, errors.Wrapf(ErrBadEncoding, "header has %d fields", sz)
	}
	version, b, err := msgp.ReadUint32Bytes(b)
	if err != nil {
		return s, errors.Wrap(ErrBadEncoding, err.Error())
	}
	if version != codecVersion {
		return s, errors.Wrapf(ErrBadEncoding, "version %d", version)
	}
	count, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return s, errors.Wrap(ErrBadEncoding, err.Error())
	}
	s.Nodes = make([]vu.SnapshotNode, count)
	for i := range s.Nodes {
		if b, err = readNode(b, &s.Nodes[i]); err != nil {
			return vu.Snapshot{}, errors.Wrapf(ErrBadEncoding, "node %d: %v", i, err)
		}
	}
	if len(b) != 0 {
		return vu.Snapshot{}, errors.Wrapf(ErrBadEncoding, "%d trailing bytes", len(b))
	}
	return s, nil
}

func readNode(b []byte, n *vu.SnapshotNode) ([]byte, error) {
	sz, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	if sz != fieldsPerNode {
		return b, errors.Errorf("%d fields, want %d", sz, fieldsPerNode)
	}
	if n.FS, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if n.VS, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	var m uint32
	if m, b, err = msgp.ReadUint32Bytes(b); err != nil {
		return b, err
	}
	n.Mask = vu.Mask(m)
	if n.User, b, err = msgp.ReadInt64Bytes(b); err != nil {
		return b, err
	}
	if n.X, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return b, err
	}
	if n.Y, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return b, err
	}
	n.Z, b, err = msgp.ReadFloat64Bytes(b)
	return b, err
}
