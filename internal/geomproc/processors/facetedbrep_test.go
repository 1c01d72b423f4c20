package processors

import (
	"testing"

	"github.com/ifcproc/ifcproc/internal/stepfile"
	"github.com/stretchr/testify/require"
)

func TestBuildFacetedBrepSingleSquareFace(t *testing.T) {
	data := []byte(`#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((1.,0.,0.));
#3=IFCCARTESIANPOINT((1.,1.,0.));
#4=IFCCARTESIANPOINT((0.,1.,0.));
#5=IFCPOLYLOOP((#1,#2,#3,#4));
#6=IFCFACEOUTERBOUND(#5,.T.);
#7=IFCFACE((#6));
#8=IFCCLOSEDSHELL((#7));
#9=IFCFACETEDBREP(#8);
`)
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	m, err := BuildFacetedBrep(dec, 9)
	require.NoError(t, err)
	require.Equal(t, 2, m.TriangleCount())
}

func TestBuildFacetedBrepEmptyShellErrors(t *testing.T) {
	data := []byte(`#8=IFCCLOSEDSHELL(());
#9=IFCFACETEDBREP(#8);
`)
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	_, err = BuildFacetedBrep(dec, 9)
	require.Error(t, err)
}
