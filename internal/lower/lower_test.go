// SPDX-License-Identifier: MPL-2.0

package lower

import (
	"errors"
	"testing"

	"runec/internal/resolve"
	"runec/pkg/runefile"
	"runec/pkg/shape"
)

const sineRunefile = `FROM runicos/base

CAPABILITY<F32[1]> RAND rand --n 1
PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune#proc_blocks/modulo mod360 --modulus 360
MODEL<f32[1],f32[1]> ./sinemodel.tflite sine

RUN rand mod360 sine
OUT serial
`

func mustLower(t *testing.T, src, workDir string) *Graph {
	t.Helper()

	doc, err := runefile.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	graph, err := Lower(doc, workDir)
	if err != nil {
		t.Fatalf("Lower() error = %v", err)
	}
	return graph
}

func TestLowerThreeStagePipeline(t *testing.T) {
	src := `CAPABILITY<f32[3]> ACCEL accelerometer
PROC_BLOCK<f32[3],f32[3]> ./normalize normalize
MODEL<f32[3],f32[1]> ./sine.tflite sine
RUN accelerometer normalize sine
OUT serial
`
	graph := mustLower(t, src, "/work")

	wantOrder := []string{"accelerometer", "normalize", "sine"}
	if len(graph.RunOrder) != len(wantOrder) {
		t.Fatalf("RunOrder = %v, want %v", graph.RunOrder, wantOrder)
	}
	for i, name := range wantOrder {
		if graph.RunOrder[i] != name {
			t.Errorf("RunOrder[%d] = %q, want %q", i, graph.RunOrder[i], name)
		}
	}
	if len(graph.Nodes) != 3 {
		t.Errorf("len(Nodes) = %d, want 3", len(graph.Nodes))
	}
	if graph.Sink != "serial" {
		t.Errorf("Sink = %q, want %q", graph.Sink, "serial")
	}

	roles := map[string]Role{
		"accelerometer": RoleCapability,
		"normalize":     RoleProcBlock,
		"sine":          RoleModel,
	}
	for name, want := range roles {
		node := graph.Node(name)
		if node == nil {
			t.Fatalf("Node(%q) = nil", name)
		}
		if node.Role != want {
			t.Errorf("Node(%q).Role = %v, want %v", name, node.Role, want)
		}
	}
}

func TestLowerSineExample(t *testing.T) {
	graph := mustLower(t, sineRunefile, "/work")

	if graph.BaseImage == nil || graph.BaseImage.Base != "runicos/base" {
		t.Errorf("BaseImage = %v, want runicos/base", graph.BaseImage)
	}

	rand := graph.Node("rand")
	if rand == nil {
		t.Fatal("Node(rand) = nil")
	}
	if rand.Kind != "RAND" {
		t.Errorf("rand.Kind = %q, want RAND", rand.Kind)
	}
	want := shape.New(shape.F32, 1)
	if rand.OutputShape == nil || !rand.OutputShape.Equal(want) {
		t.Errorf("rand.OutputShape = %v, want %v", rand.OutputShape, want)
	}

	mod := graph.Node("mod360")
	if mod == nil {
		t.Fatal("Node(mod360) = nil")
	}
	if mod.Dependency == nil || !mod.Dependency.Equal(resolve.Builtin()) {
		t.Errorf("mod360.Dependency = %v, want builtin", mod.Dependency)
	}
	if mod.InputShape == nil || !mod.InputShape.Equal(want) {
		t.Errorf("mod360.InputShape = %v, want %v", mod.InputShape, want)
	}

	sine := graph.Node("sine")
	if sine == nil {
		t.Fatal("Node(sine) = nil")
	}
	if sine.File != "./sinemodel.tflite" {
		t.Errorf("sine.File = %q, want ./sinemodel.tflite", sine.File)
	}
	if sine.Dependency != nil {
		t.Errorf("sine.Dependency = %v, want nil for a local model file", sine.Dependency)
	}

	dep, ok := graph.Dependencies["modulo"]
	if !ok {
		t.Fatalf("Dependencies is missing %q: %v", "modulo", graph.Dependencies)
	}
	if !dep.Equal(resolve.Builtin()) {
		t.Errorf("Dependencies[modulo] = %v, want builtin", dep)
	}
	if len(graph.Dependencies) != 1 {
		t.Errorf("len(Dependencies) = %d, want 1", len(graph.Dependencies))
	}
}

func TestLowerAggregatesProcBlockParameters(t *testing.T) {
	src := `PROC_BLOCK<_,_> ./fft fft --bins 128 --window hann
RUN fft
`
	graph := mustLower(t, src, "/work")

	params := graph.Parameters["fft"]
	if params == nil {
		t.Fatal("Parameters[fft] = nil")
	}
	bins, ok := params["bins"]
	if !ok || bins.Literal == nil || bins.Literal.Integer != 128 {
		t.Errorf("Parameters[fft][bins] = %+v, want literal 128", bins)
	}
	window, ok := params["window"]
	if !ok || window.Literal == nil || window.Literal.Str != "hann" {
		t.Errorf("Parameters[fft][window] = %+v, want literal hann", window)
	}
}

func TestLowerDefaultSink(t *testing.T) {
	src := `CAPABILITY<f32[1]> RAND rand
RUN rand
`
	graph := mustLower(t, src, "/work")
	if graph.Sink != DefaultSink {
		t.Errorf("Sink = %q, want %q", graph.Sink, DefaultSink)
	}
}

func TestLowerLastOutWins(t *testing.T) {
	src := `CAPABILITY<f32[1]> RAND rand
RUN rand
OUT serial
OUT ble
`
	graph := mustLower(t, src, "/work")
	if graph.Sink != "ble" {
		t.Errorf("Sink = %q, want %q", graph.Sink, "ble")
	}
}

func TestLowerMissingRunProducesEmptyOrder(t *testing.T) {
	graph := mustLower(t, "CAPABILITY<f32[1]> RAND rand\n", "/work")
	if len(graph.RunOrder) != 0 {
		t.Errorf("RunOrder = %v, want empty", graph.RunOrder)
	}
	if len(graph.Nodes) != 1 {
		t.Errorf("len(Nodes) = %d, want 1", len(graph.Nodes))
	}
}

func TestLowerDanglingReference(t *testing.T) {
	src := `CAPABILITY<f32[1]> RAND rand
RUN rand missing
`
	doc, err := runefile.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = Lower(doc, "/work")
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("Lower() error = %v, want ErrDanglingReference", err)
	}

	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("error %v is not a *DanglingReferenceError", err)
	}
	if dangling.Name.Value != "missing" {
		t.Errorf("Name = %q, want %q", dangling.Name.Value, "missing")
	}
	if dangling.RunSpan.Len() == 0 {
		t.Error("RunSpan is empty, want the RUN instruction's span")
	}
}

func TestLowerDuplicateStage(t *testing.T) {
	src := `CAPABILITY<f32[1]> RAND rand
MODEL<f32[1],f32[1]> ./sine.tflite rand
RUN rand
`
	doc, err := runefile.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = Lower(doc, "/work")
	if !errors.Is(err, ErrDuplicateStage) {
		t.Fatalf("Lower() error = %v, want ErrDuplicateStage", err)
	}

	var duplicate *DuplicateStageError
	if !errors.As(err, &duplicate) {
		t.Fatalf("error %v is not a *DuplicateStageError", err)
	}
	if duplicate.Name.Value != "rand" {
		t.Errorf("Name = %q, want %q", duplicate.Name.Value, "rand")
	}
}

func TestLowerConflictingDependency(t *testing.T) {
	// Both references key the dependency table under "modulo" but resolve
	// to different sources.
	src := `PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune#proc_blocks/modulo first
PROC_BLOCK<f32[1],f32[1]> someone-else/pblocks#modulo second
RUN first second
`
	doc, err := runefile.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = Lower(doc, "/work")
	if !errors.Is(err, ErrConflictingDependency) {
		t.Fatalf("Lower() error = %v, want ErrConflictingDependency", err)
	}

	var conflict *ConflictingDependencyError
	if !errors.As(err, &conflict) {
		t.Fatalf("error %v is not a *ConflictingDependencyError", err)
	}
	if conflict.Name != "modulo" {
		t.Errorf("Name = %q, want %q", conflict.Name, "modulo")
	}
}

func TestLowerRepeatedBuiltinReferenceIsNotAConflict(t *testing.T) {
	src := `PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune#proc_blocks/modulo first
PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune@v1.2#proc_blocks/modulo second
RUN first second
`
	graph := mustLower(t, src, "/work")
	if len(graph.Dependencies) != 1 {
		t.Fatalf("len(Dependencies) = %d, want 1: %v", len(graph.Dependencies), graph.Dependencies)
	}
	if !graph.Dependencies["modulo"].Equal(resolve.Builtin()) {
		t.Errorf("Dependencies[modulo] = %v, want builtin", graph.Dependencies["modulo"])
	}
}

func TestLowerInvalidStageType(t *testing.T) {
	src := "CAPABILITY<q7[1]> RAND rand\nRUN rand\n"
	doc, err := runefile.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = Lower(doc, "/work")
	if !errors.Is(err, ErrInvalidStageType) {
		t.Fatalf("Lower() error = %v, want ErrInvalidStageType", err)
	}
	if !errors.Is(err, shape.ErrUnknownElementType) {
		t.Errorf("Lower() error = %v, want wrapped ErrUnknownElementType", err)
	}
}

func TestStagesInRunOrder(t *testing.T) {
	graph := mustLower(t, sineRunefile, "/work")

	stages := graph.StagesInRunOrder()
	want := []string{"rand", "mod360", "sine"}
	if len(stages) != len(want) {
		t.Fatalf("len(stages) = %d, want %d", len(stages), len(want))
	}
	for i, stage := range stages {
		if stage.Name.Value != want[i] {
			t.Errorf("stages[%d] = %q, want %q", i, stage.Name.Value, want[i])
		}
	}
}
