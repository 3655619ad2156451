package serializer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// Fixtures mirror the layout documented in the package: pointer fields
// are native words, string fields are two words (data, len).

type child struct {
	Y    int64
	Name string
}

type parent struct {
	X     int64
	Child *child
}

// pair references two parents so that shared children can be observed
// inside a single blob.
type pair struct {
	A *parent
	B *parent
}

// mixed interleaves a string leaf between sub-structure fields to
// exercise alignment padding after unaligned appends.
type mixed struct {
	Tag string
	A   *child
	B   *child
}

func flattenParent(p *parent, hint int) []byte {
	ctx := New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), hint)
	defer ctx.Release()

	ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(child{})))
	if p.Child != nil {
		ctx.AddString(&p.Child.Name)
	}
	ctx.Pop()

	return ctx.Finish()
}

func TestContext_ScenarioA(t *testing.T) {
	p := &parent{X: 1, Child: &child{Y: 2, Name: "ab"}}
	blob := flattenParent(p, 0)

	parentSize := int(unsafe.Sizeof(parent{}))
	childOff := int(unsafe.Offsetof(parent{}.Child))
	nameOff := int(unsafe.Offsetof(child{}.Name))

	// Parent image occupies offset 0.
	require.EqualValues(t, 1, *(*int64)(unsafe.Pointer(&blob[0])))

	// Child slot holds a non-zero offset relative to the parent image.
	childRel := *(*uintptr)(unsafe.Pointer(&blob[childOff]))
	require.NotZero(t, childRel)
	require.EqualValues(t, parentSize, childRel)

	// Following it lands on y=2 and a non-zero name slot.
	childBase := int(childRel)
	require.EqualValues(t, 2, *(*int64)(unsafe.Pointer(&blob[childBase])))

	nameRel := *(*uintptr)(unsafe.Pointer(&blob[childBase+nameOff]))
	require.NotZero(t, nameRel)

	// Following that lands on "ab" plus the terminator.
	strBase := childBase + int(nameRel)
	require.Equal(t, []byte("ab\x00"), blob[strBase:strBase+3])
}

func TestContext_ScenarioB_NilChild(t *testing.T) {
	p := &parent{X: 7}
	blob := flattenParent(p, 0)

	// No bytes beyond the parent's own image.
	require.Len(t, blob, int(unsafe.Sizeof(parent{})))

	// The slot decodes to exactly 0 and the read-only accessor agrees.
	childOff := unsafe.Offsetof(parent{}.Child)
	require.Zero(t, *(*uintptr)(unsafe.Pointer(&blob[childOff])))

	base := unsafe.Pointer(&blob[0])
	view := (*parent)(base)
	require.Nil(t, Ptr(base, &view.Child))
}

func TestContext_ScenarioC_SharedChildIsCopiedTwice(t *testing.T) {
	shared := &child{Y: 9, Name: "s"}
	pr := &pair{
		A: &parent{X: 1, Child: shared},
		B: &parent{X: 2, Child: shared},
	}

	ctx := New(unsafe.Pointer(pr), int(unsafe.Sizeof(*pr)), 0)
	defer ctx.Release()

	for _, pp := range []**parent{&pr.A, &pr.B} {
		ctx.Push(unsafe.Pointer(pp), int(unsafe.Sizeof(parent{})))
		ctx.Push(unsafe.Pointer(&(*pp).Child), int(unsafe.Sizeof(child{})))
		ctx.AddString(&shared.Name)
		ctx.Pop()
		ctx.Pop()
	}

	blob := ctx.Finish()
	base := unsafe.Pointer(&blob[0])
	view := (*pair)(base)

	a := Ptr(base, &view.A)
	b := Ptr(base, &view.B)
	require.NotNil(t, a)
	require.NotNil(t, b)

	ca := Ptr(unsafe.Pointer(a), &a.Child)
	cb := Ptr(unsafe.Pointer(b), &b.Child)

	// No deduplication: one source instance, two separate copies.
	require.NotSame(t, ca, cb)
	require.EqualValues(t, 9, ca.Y)
	require.EqualValues(t, 9, cb.Y)
	require.Equal(t, "s", Str(unsafe.Pointer(ca), &ca.Name))
	require.Equal(t, "s", Str(unsafe.Pointer(cb), &cb.Name))
}

func TestContext_ScenarioD_ForeignFieldPanics(t *testing.T) {
	p := &parent{X: 1, Child: &child{Y: 2}}

	ctx := New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), 0)
	defer ctx.Release()

	ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(child{})))

	// The top of the stack is the child; patching a field of the parent
	// is a traversal contract violation.
	require.Panics(t, func() {
		ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(child{})))
	})
}

func TestContext_SetNullOverridesField(t *testing.T) {
	p := &parent{X: 3, Child: &child{Y: 4, Name: "deep"}}

	ctx := New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), 0)
	defer ctx.Release()

	// Truncate the graph: the child is intentionally not serialized.
	ctx.SetNull(unsafe.Pointer(&p.Child))
	blob := ctx.Finish()

	require.Len(t, blob, int(unsafe.Sizeof(parent{})))

	base := unsafe.Pointer(&blob[0])
	view := (*parent)(base)
	require.Nil(t, Ptr(base, &view.Child))
}

func TestContext_SetNullAfterPush(t *testing.T) {
	p := &parent{X: 3, Child: &child{Y: 4, Name: "x"}}
	blob := flattenParent(p, 0)

	// Re-serialize, then force the already-written slot back to null.
	ctx := New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), len(blob))
	ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(child{})))
	ctx.AddString(&p.Child.Name)
	ctx.Pop()
	ctx.SetNull(unsafe.Pointer(&p.Child))
	blob = ctx.Finish()
	ctx.Release()

	base := unsafe.Pointer(&blob[0])
	view := (*parent)(base)
	require.Nil(t, Ptr(base, &view.Child))
}

func TestContext_AlignmentAfterStringAppend(t *testing.T) {
	m := &mixed{
		Tag: "odd", // 3 bytes + terminator leave the buffer unaligned
		A:   &child{Y: 1, Name: "a"},
		B:   &child{Y: 2, Name: "bc"},
	}

	ctx := New(unsafe.Pointer(m), int(unsafe.Sizeof(*m)), 0)
	defer ctx.Release()

	ctx.AddString(&m.Tag)
	ctx.Push(unsafe.Pointer(&m.A), int(unsafe.Sizeof(child{})))
	ctx.AddString(&m.A.Name)
	ctx.Pop()
	ctx.Push(unsafe.Pointer(&m.B), int(unsafe.Sizeof(child{})))
	ctx.AddString(&m.B.Name)
	ctx.Pop()

	blob := ctx.Finish()
	base := unsafe.Pointer(&blob[0])
	view := (*mixed)(base)

	for _, f := range []**child{&view.A, &view.B} {
		// The stored offsets are relative to the root, so they double as
		// absolute blob offsets here.
		off := *(*uintptr)(unsafe.Pointer(f))
		require.Zero(t, off%DefaultAlign, "child image not aligned: offset %d", off)

		c := Ptr(base, f)
		require.NotNil(t, c)
		require.Zero(t, uintptr(unsafe.Pointer(c))%DefaultAlign)
	}

	require.Equal(t, "odd", Str(base, &view.Tag))
}

func TestContext_IdempotentFinish(t *testing.T) {
	p := &parent{X: 5, Child: &child{Y: 6, Name: "zz"}}

	ctx := New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), 0)
	defer ctx.Release()
	ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(child{})))
	ctx.AddString(&p.Child.Name)
	ctx.Pop()

	first := ctx.Finish()
	second := ctx.Finish()
	require.Equal(t, len(first), len(second))
	require.Equal(t, first, second)
}

func TestContext_BareString(t *testing.T) {
	s := "hello"

	ctx := New(nil, 0, 16)
	defer ctx.Release()
	ctx.AddString(&s)

	require.Equal(t, []byte("hello\x00"), ctx.Finish())
}

func TestContext_EmptyStringStaysPresent(t *testing.T) {
	p := &parent{X: 1, Child: &child{Y: 2, Name: ""}}
	blob := flattenParent(p, 0)

	base := unsafe.Pointer(&blob[0])
	view := (*parent)(base)
	c := Ptr(base, &view.Child)
	require.NotNil(t, c)

	// The terminator keeps the offset non-zero for the empty string.
	require.NotZero(t, *(*uintptr)(unsafe.Pointer(&c.Name)))
	require.Equal(t, "", Str(unsafe.Pointer(c), &c.Name))
}

func TestContext_RootViaFirstPush(t *testing.T) {
	p := &parent{X: 11, Child: &child{Y: 12, Name: "r"}}

	ctx := New(nil, 0, 64)
	defer ctx.Release()

	root := p
	ctx.Push(unsafe.Pointer(&root), int(unsafe.Sizeof(*p)))
	ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(child{})))
	ctx.AddString(&p.Child.Name)
	ctx.Pop()
	ctx.Pop()

	blob := ctx.Finish()
	base := unsafe.Pointer(&blob[0])
	view := (*parent)(base)
	require.EqualValues(t, 11, view.X)

	c := Ptr(base, &view.Child)
	require.NotNil(t, c)
	require.EqualValues(t, 12, c.Y)
	require.Equal(t, "r", Str(unsafe.Pointer(c), &c.Name))
}

func TestContext_StackUnderflowPanics(t *testing.T) {
	t.Run("pop", func(t *testing.T) {
		ctx := New(nil, 0, 0)
		require.Panics(t, func() { ctx.Pop() })
	})

	t.Run("set null", func(t *testing.T) {
		ctx := New(nil, 0, 0)
		var p *parent
		require.Panics(t, func() { ctx.SetNull(unsafe.Pointer(&p)) })
	})
}

func TestContext_CapacityHint(t *testing.T) {
	p := &parent{X: 1}

	// The hint is a floor, the struct size is the minimum.
	ctx := New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), 4096)
	defer ctx.Release()
	require.Len(t, ctx.Finish(), int(unsafe.Sizeof(parent{})))
}
