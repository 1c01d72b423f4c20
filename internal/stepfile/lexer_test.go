package stepfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanEntitiesBasic(t *testing.T) {
	data := []byte("#1=IFCCARTESIANPOINT((0.,0.,0.));\n#2= IFCCARTESIANPOINT((1.0,0.0,0.0));\n")
	idx, err := ScanEntities(data)
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	e1, ok := idx.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "IFCCARTESIANPOINT", e1.Type)
	require.Equal(t, byte('#'), data[e1.Start])
	require.Equal(t, byte(';'), data[e1.End-1])
}

func TestScanEntitiesIgnoresCommentsAndStrings(t *testing.T) {
	data := []byte("/* a (fake #9 entity) */ #1=IFCLABEL('it''s a (paren) and ; semicolon');\n")
	idx, err := ScanEntities(data)
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())
	e, ok := idx.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "IFCLABEL", e.Type)
}

func TestScanEntitiesUnterminatedString(t *testing.T) {
	_, err := ScanEntities([]byte("#1=IFCLABEL('oops;"))
	require.Error(t, err)
}

func TestScanEntitiesUnbalancedParens(t *testing.T) {
	_, err := ScanEntities([]byte("#1=IFCLABEL((;"))
	require.Error(t, err)
}

func TestDecodeSimpleAttributes(t *testing.T) {
	data := []byte("#1=IFCCARTESIANPOINT((1.5,2.5,-3.0));")
	idx, err := ScanEntities(data)
	require.NoError(t, err)
	dec := NewDecoder(data, idx)

	ent, err := dec.DecodeByID(1)
	require.NoError(t, err)
	require.Equal(t, "IFCCARTESIANPOINT", ent.IfcType)
	require.Len(t, ent.Attributes, 1)

	coords, ok := ent.Attributes[0].AsList()
	require.True(t, ok)
	require.Len(t, coords, 3)
	x, _ := coords[0].AsFloat()
	require.Equal(t, 1.5, x)
}

func TestDecodeNullAndRefAndSymbol(t *testing.T) {
	data := []byte("#2=IFCWALL($,#1,.USERDEFINED.,*);")
	idx, err := ScanEntities(data)
	require.NoError(t, err)
	dec := NewDecoder(data, idx)

	ent, err := dec.DecodeByID(2)
	require.NoError(t, err)
	require.True(t, ent.Attributes[0].IsNull())
	ref, ok := ent.Attributes[1].AsEntityRef()
	require.True(t, ok)
	require.Equal(t, uint32(1), ref)
	sym, ok := ent.Attributes[2].AsString()
	require.True(t, ok)
	require.Equal(t, "USERDEFINED", sym)
	require.Equal(t, KindDerived, ent.Attributes[3].Kind)
}

func TestGetCartesianPointFast(t *testing.T) {
	data := []byte("#1=IFCCARTESIANPOINT((10.,20.,30.));")
	idx, err := ScanEntities(data)
	require.NoError(t, err)
	dec := NewDecoder(data, idx)

	x, y, z, ok := dec.GetCartesianPointFast(1)
	require.True(t, ok)
	require.Equal(t, 10.0, x)
	require.Equal(t, 20.0, y)
	require.Equal(t, 30.0, z)
}

func TestGetPolyLoopPointIDsFast(t *testing.T) {
	data := []byte("#5=IFCPOLYLOOP((#1,#2,#3));")
	idx, err := ScanEntities(data)
	require.NoError(t, err)
	dec := NewDecoder(data, idx)

	ids, ok := dec.GetPolyLoopPointIDsFast(5)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2, 3}, ids)
}
