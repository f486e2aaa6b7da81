package types_test

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/X12-Cloud/Nytrogen/internal/types"
)

type fakeSizer map[string]int

func (f fakeSizer) StructSize(name string) (int, bool) {
	sz, ok := f[name]
	return sz, ok
}

func TestPrimitiveSizes(t *testing.T) {
	be.Equal(t, types.NewInt().Size(nil), 4)
	be.Equal(t, types.NewBool().Size(nil), 1)
	be.Equal(t, types.NewChar().Size(nil), 1)
	be.Equal(t, types.NewString().Size(nil), 8)
	be.Equal(t, types.NewVoid().Size(nil), 0)
}

func TestPointerSizeIsAlwaysEight(t *testing.T) {
	p := types.NewPointer(types.NewChar())
	be.Equal(t, p.Size(nil), 8)
}

func TestArraySizeMultipliesElementByLength(t *testing.T) {
	a := types.NewArray(types.NewInt(), 10)
	be.Equal(t, a.Size(nil), 40)
}

func TestStructSizeResolvedViaSizer(t *testing.T) {
	s := types.NewStruct("Point")
	sizer := fakeSizer{"Point": 16}
	be.Equal(t, s.Size(sizer), 16)
	be.Equal(t, s.Size(nil), 0)
}

func TestEqualIsStructuralForPrimitivesAndNominalForStructs(t *testing.T) {
	be.True(t, types.NewInt().Equal(types.NewInt()))
	be.True(t, !types.NewInt().Equal(types.NewBool()))
	be.True(t, types.NewStruct("Point").Equal(types.NewStruct("Point")))
	be.True(t, !types.NewStruct("Point").Equal(types.NewStruct("Line")))
}

func TestCloneIsIndependentOfSource(t *testing.T) {
	base := types.NewInt()
	ptr := types.NewPointer(base)
	clone := ptr.Clone()
	clone.Base.Prim = types.BoolType
	be.Equal(t, ptr.Base.Prim, types.IntType)
}

func TestSameCategoryIgnoresPayload(t *testing.T) {
	be.True(t, types.NewInt().SameCategory(types.NewBool()))
	be.True(t, !types.NewInt().SameCategory(types.NewPointer(types.NewInt())))
}

func TestStringRendersReadableForm(t *testing.T) {
	be.Equal(t, types.NewInt().String(), "int")
	be.Equal(t, types.NewPointer(types.NewChar()).String(), "char*")
	be.Equal(t, types.NewArray(types.NewInt(), 3).String(), "int[]")
	be.Equal(t, types.NewStruct("Point").String(), "Point")
}

func TestIsBoolIsIntIsVoid(t *testing.T) {
	be.True(t, types.NewBool().IsBool())
	be.True(t, types.NewInt().IsInt())
	be.True(t, types.NewVoid().IsVoid())
	be.True(t, !types.NewInt().IsBool())
}
