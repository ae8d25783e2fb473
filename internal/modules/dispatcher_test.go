package modules

import (
	"testing"

	"github.com/lattice-lang/astcore/internal/dispatch"
)

func TestRegisterAndExportResolve(t *testing.T) {
	d := NewDispatcher()
	if _, err := d.RegisterModule("geo", "v1.0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fam := &dispatch.FunctionFamily{Name: "area"}
	if err := d.ExportSignature("geo", "area", fam); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := d.ResolveCrossModuleDispatch("geo", "", "area")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fam {
		t.Fatalf("expected to resolve the exported family")
	}
}

func TestImportSignatureErrorPolicyOnConflict(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("a", "v1.0.0")
	d.RegisterModule("b", "v1.0.0")
	famA := &dispatch.FunctionFamily{Name: "f"}
	famB := &dispatch.FunctionFamily{Name: "f"}
	d.ExportSignature("a", "f", famA)
	d.ExportSignature("b", "f", famB)

	if _, err := d.ImportSignature("b", "a", "f", "f", MergeError); err == nil {
		t.Fatalf("expected a conflict error")
	}
}

func TestImportSignaturePreferLocalKeepsExisting(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("a", "v1.0.0")
	d.RegisterModule("b", "v1.0.0")
	famA := &dispatch.FunctionFamily{Name: "f"}
	famB := &dispatch.FunctionFamily{Name: "f"}
	d.ExportSignature("a", "f", famA)
	d.ExportSignature("b", "f", famB)

	got, err := d.ImportSignature("b", "a", "f", "f", MergePreferLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != famB {
		t.Fatalf("expected prefer_local to keep the importer's own family")
	}
}

func TestRegisterModuleDetectsCircularImport(t *testing.T) {
	d := NewDispatcher()
	d.mu.Lock()
	d.processing["a"] = true
	d.mu.Unlock()

	_, err := d.RegisterModule("a", "v1.0.0")
	if err == nil {
		t.Fatalf("expected a circular import error")
	}
}

func TestHotReloadBumpsGeneration(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("geo", "v1.0.0")
	before, _ := d.GetModule("geo")

	after, err := d.HotReloadModule("geo", "v1.1.0", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.Generation == before.Generation {
		t.Fatalf("expected hot reload to assign a new generation")
	}
	if after.Version != "v1.1.0" {
		t.Fatalf("expected the reloaded module to carry the new version, got %s", after.Version)
	}
}

func TestRegisterGraftRegistersNativeModuleAndAlias(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("app", "v1.0.0")

	if err := d.RegisterGraft("app", "json", "vendor/json.zig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	into, _ := d.GetModule("app")
	if into.Grafts["json"] != "vendor/json.zig" {
		t.Fatalf("expected the graft alias to record the native path, got %q", into.Grafts["json"])
	}
	if _, ok := d.GetModule("vendor/json.zig"); !ok {
		t.Fatalf("expected the native path to be registered as its own module")
	}
}

func TestCheckDispatchConsistencyFlagsUnregisteredGraft(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("app", "v1.0.0")
	into, _ := d.GetModule("app")
	into.Grafts["json"] = "vendor/json.zig" // simulate a graft whose native module never registered

	bad := d.CheckDispatchConsistency("app")
	if len(bad) != 1 || bad[0] != "json" {
		t.Fatalf("expected the unregistered graft to be flagged, got %v", bad)
	}
}

func TestCreateQualifiedCallSelectsModuleExportDirectly(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("json", "v1.0.0")
	d.RegisterModule("xml", "v1.0.0")
	jsonParse := &dispatch.FunctionFamily{Name: "parse"}
	xmlParse := &dispatch.FunctionFamily{Name: "parse"}
	d.ExportSignature("json", "parse", jsonParse)
	d.ExportSignature("xml", "parse", xmlParse)

	got, err := d.CreateQualifiedCall("json", "parse", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != jsonParse {
		t.Fatalf("expected the json-qualified call to resolve to json's own export")
	}
}

func TestCreateQualifiedCallFallsBackToMemberName(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("vendor/json.zig", "native")
	fallback := &dispatch.FunctionFamily{Name: "jsonParse"}
	d.ExportSignature("vendor/json.zig", "jsonParse", fallback)

	got, err := d.CreateQualifiedCall("vendor/json.zig", "parse", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fallback {
		t.Fatalf("expected the fallback member-name export to resolve")
	}
}

func TestCreateQualifiedCallReportsAmbiguityBetweenDirectAndFallback(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("json", "v1.0.0")
	direct := &dispatch.FunctionFamily{Name: "parse"}
	fallback := &dispatch.FunctionFamily{Name: "jsonParse"}
	d.ExportSignature("json", "parse", direct)
	d.ExportSignature("json", "jsonParse", fallback)

	if _, err := d.CreateQualifiedCall("json", "parse", true); err == nil {
		t.Fatalf("expected an ambiguity error when error_on_ambiguity is set")
	}
	got, err := d.CreateQualifiedCall("json", "parse", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != direct {
		t.Fatalf("expected the direct export to win when ambiguity isn't an error")
	}
}

func TestCreateQualifiedCallNotExported(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("json", "v1.0.0")

	if _, err := d.CreateQualifiedCall("json", "parse", false); err == nil {
		t.Fatalf("expected an error when neither the bare nor fallback name is exported")
	}
}

func TestCheckDispatchConsistencyFlagsDroppedExport(t *testing.T) {
	d := NewDispatcher()
	d.RegisterModule("a", "v1.0.0")
	d.RegisterModule("b", "v1.0.0")
	d.ExportSignature("a", "f", &dispatch.FunctionFamily{Name: "f"})
	d.ImportSignature("b", "a", "f", "f", MergeError)

	d.HotReloadModule("a", "v2.0.0", nil) // drops the export entirely

	bad := d.CheckDispatchConsistency("b")
	if len(bad) != 1 || bad[0] != "f" {
		t.Fatalf("expected the dropped export to be flagged, got %v", bad)
	}
}
