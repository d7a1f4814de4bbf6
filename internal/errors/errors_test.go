package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(CategoryConfig, SeverityFatal, "bad settings")
	if got := plain.Error(); got != "config (fatal): bad settings" {
		t.Errorf("Error() = %q", got)
	}

	cause := fmt.Errorf("disk full")
	wrapped := Wrap(cause, CategoryFileSystem, SeverityFatal, "copy failed")
	if got := wrapped.Error(); got != "filesystem (fatal): copy failed: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestCategoryHelpers(t *testing.T) {
	err := New(CategoryBuild, SeverityFatal, "build failed")
	if !IsCategory(err, CategoryBuild) {
		t.Error("IsCategory should match")
	}
	if IsCategory(err, CategoryConfig) {
		t.Error("IsCategory should not match a different category")
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want internal", got)
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
	if !IsFatal(New(CategoryBuild, SeverityFatal, "x")) {
		t.Error("fatal severity should report fatal")
	}
	if IsFatal(New(CategoryBuild, SeverityWarning, "x")) {
		t.Error("warning severity should not report fatal")
	}
	if !IsFatal(fmt.Errorf("unknown")) {
		t.Error("unknown error types are treated as fatal")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "x").
		WithContext("plugin", "plugin-x").
		WithContext("path", "/work/plugin-x")
	if err.Context["plugin"] != "plugin-x" || err.Context["path"] != "/work/plugin-x" {
		t.Errorf("context = %v", err.Context)
	}
}
