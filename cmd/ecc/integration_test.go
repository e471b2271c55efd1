package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// transformExpectedForDarwin transforms expected assembly patterns for Darwin/macOS
// On Darwin, global symbols get an underscore prefix
func transformExpectedForDarwin(exp string) string {
	if runtime.GOOS != "darwin" {
		return exp
	}
	labelRE := regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*):`)
	return labelRE.ReplaceAllString(exp, `_$1:`)
}

// E2ETestSpec represents a single end-to-end test case
type E2ETestSpec struct {
	Name         string   `yaml:"name"`
	Input        string   `yaml:"input"`
	Exit         int      `yaml:"exit"`
	Expect       []string `yaml:"expect"`        // Strings that must appear in output
	ExpectOrder  []string `yaml:"expect_order"`  // Strings that must appear in this order
	ExpectUnique []string `yaml:"expect_unique"` // Strings that must appear exactly once
	ExpectNot    []string `yaml:"expect_not"`    // Strings that must NOT appear in output
	Skip         string   `yaml:"skip,omitempty"`
	SkipRun      string   `yaml:"skip_run,omitempty"` // Reason not to link and run
}

// E2ETestFile represents the e2e.yaml file structure
type E2ETestFile struct {
	Tests []E2ETestSpec `yaml:"tests"`
}

func loadE2E(t *testing.T) E2ETestFile {
	t.Helper()
	data, err := os.ReadFile("../../testdata/e2e.yaml")
	if err != nil {
		t.Fatalf("e2e.yaml not found: %v", err)
	}
	var testFile E2ETestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse e2e.yaml: %v", err)
	}
	return testFile
}

func TestE2EAsmYAML(t *testing.T) {
	for _, tc := range loadE2E(t).Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}

			testCFile := writeTestFile(t, "test.c", tc.Input)
			output, errOut, err := execute("--dasm", testCFile)
			if err != nil {
				t.Fatalf("ecc failed: %v\nStderr: %s", err, errOut)
			}

			// Check that all expected strings appear in output
			for _, exp := range tc.Expect {
				exp = transformExpectedForDarwin(exp)
				if !strings.Contains(output, exp) {
					t.Errorf("expected output to contain %q\nGot:\n%s", exp, output)
				}
			}

			// Check that strings appear in specified order
			lastIdx := -1
			for _, exp := range tc.ExpectOrder {
				exp = transformExpectedForDarwin(exp)
				idx := strings.Index(output[lastIdx+1:], exp)
				if idx == -1 {
					t.Errorf("expected %q after position %d\nGot:\n%s", exp, lastIdx, output)
					break
				}
				lastIdx += idx + 1
			}

			// Check that strings appear exactly once
			for _, exp := range tc.ExpectUnique {
				exp = transformExpectedForDarwin(exp)
				if count := strings.Count(output, exp); count != 1 {
					t.Errorf("expected %q to appear exactly once, found %d times\nGot:\n%s", exp, count, output)
				}
			}

			// Check that strings do NOT appear
			for _, exp := range tc.ExpectNot {
				exp = transformExpectedForDarwin(exp)
				if strings.Contains(output, exp) {
					t.Errorf("expected output NOT to contain %q\nGot:\n%s", exp, output)
				}
			}
		})
	}
}

func TestE2ERuntimeYAML(t *testing.T) {
	if runtime.GOARCH != "amd64" || (runtime.GOOS != "linux" && runtime.GOOS != "darwin") {
		t.Skip("generated code needs an x86-64 Unix host")
	}
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("C toolchain 'cc' not found in PATH")
	}

	for _, tc := range loadE2E(t).Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}
			if tc.SkipRun != "" {
				t.Skip(tc.SkipRun)
			}

			testCFile := writeTestFile(t, "test.c", tc.Input)
			testExe := filepath.Join(filepath.Dir(testCFile), "test")
			if _, errOut, err := execute("-o", testExe, testCFile); err != nil {
				t.Fatalf("ecc failed: %v\nStderr: %s", err, errOut)
			}
			if _, err := os.Stat(strings.TrimSuffix(testCFile, ".c") + ".s"); !os.IsNotExist(err) {
				t.Errorf("expected intermediate .s to be removed")
			}

			runCmd := exec.Command(testExe)
			runCmd.Run()
			if exitCode := runCmd.ProcessState.ExitCode(); exitCode != tc.Exit {
				t.Errorf("exit code = %d, want %d", exitCode, tc.Exit)
			}
		})
	}
}

func TestE2EKeepAsm(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	testCFile := writeTestFile(t, "keep.c", "int main(void){return 3;}")
	if _, errOut, err := execute("--linker=true", "--keep-asm", testCFile); err != nil {
		t.Fatalf("ecc failed: %v\nStderr: %s", err, errOut)
	}
	if _, err := os.Stat(strings.TrimSuffix(testCFile, ".c") + ".s"); err != nil {
		t.Errorf("expected .s to be kept: %v", err)
	}
}

func TestE2EQBE(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs qbe in PATH on windows")
	}
	testCFile := writeTestFile(t, "q.c", "int main(void){return !0;}")
	out, errOut, err := execute("--target=qbe", "-S", testCFile)
	if err != nil {
		t.Fatalf("ecc failed: %v\nStderr: %s", err, errOut)
	}
	if !strings.Contains(out, "main") {
		t.Errorf("expected main symbol in QBE output:\n%s", out)
	}
}
