package processors

import (
	"testing"

	"github.com/ifcproc/ifcproc/internal/stepfile"
	"github.com/stretchr/testify/require"
)

func TestDecodeRectangleProfileDef(t *testing.T) {
	data := []byte("#1=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,100.,200.);\n")
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	p, err := DecodeProfileDef(dec, 1)
	require.NoError(t, err)
	require.Len(t, p.Outer, 4)
}

func TestDecodeCircleProfileDef(t *testing.T) {
	data := []byte("#1=IFCCIRCLEPROFILEDEF(.AREA.,$,$,50.);\n")
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	p, err := DecodeProfileDef(dec, 1)
	require.NoError(t, err)
	require.True(t, len(p.Outer) >= 8)
}

func TestDecodeIShapeProfileDef(t *testing.T) {
	data := []byte("#1=IFCISHAPEPROFILEDEF(.AREA.,$,$,200.,300.,10.,15.,$,$,$,$);\n")
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	p, err := DecodeProfileDef(dec, 1)
	require.NoError(t, err)
	require.Len(t, p.Outer, 12)
}

func TestDecodeArbitraryClosedProfileDef(t *testing.T) {
	data := []byte(`#1=IFCCARTESIANPOINT((0.,0.));
#2=IFCCARTESIANPOINT((100.,0.));
#3=IFCCARTESIANPOINT((100.,100.));
#4=IFCCARTESIANPOINT((0.,100.));
#5=IFCPOLYLINE((#1,#2,#3,#4));
#6=IFCARBITRARYCLOSEDPROFILEDEF(.AREA.,$,#5);
`)
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	p, err := DecodeProfileDef(dec, 6)
	require.NoError(t, err)
	require.Len(t, p.Outer, 4)
}

func TestDecodeArbitraryProfileDefWithVoids(t *testing.T) {
	data := []byte(`#1=IFCCARTESIANPOINT((0.,0.));
#2=IFCCARTESIANPOINT((100.,0.));
#3=IFCCARTESIANPOINT((100.,100.));
#4=IFCCARTESIANPOINT((0.,100.));
#5=IFCPOLYLINE((#1,#2,#3,#4));
#6=IFCCARTESIANPOINT((40.,40.));
#7=IFCCARTESIANPOINT((60.,40.));
#8=IFCCARTESIANPOINT((60.,60.));
#9=IFCCARTESIANPOINT((40.,60.));
#10=IFCPOLYLINE((#6,#7,#8,#9));
#11=IFCARBITRARYPROFILEDEFWITHVOIDS(.AREA.,$,#5,(#10));
`)
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	p, err := DecodeProfileDef(dec, 11)
	require.NoError(t, err)
	require.Len(t, p.Outer, 4)
	require.Len(t, p.Holes, 1)
}
