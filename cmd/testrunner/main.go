package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// TestCase is a cgpipe invocation together with the output it must produce.
type TestCase struct {
	Name         string
	ArgsFile     string
	ExpectedFile string
}

// discoverTests finds all test cases in the tests directory
func discoverTests(testsDir string) ([]TestCase, error) {
	var tests []TestCase

	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".args") {
			baseName := strings.TrimSuffix(filepath.Base(path), ".args")
			expectedFile := filepath.Join(testsDir, baseName+".out")

			if _, err := os.Stat(expectedFile); err == nil {
				tests = append(tests, TestCase{
					Name:         baseName,
					ArgsFile:     path,
					ExpectedFile: expectedFile,
				})
			}
		}

		return nil
	})

	return tests, err
}

// readArgs returns the command line stored in an .args file. Lines starting with # are ignored.
func readArgs(argsFile string) ([]string, error) {
	content, err := os.ReadFile(argsFile)
	if err != nil {
		return nil, err
	}
	var args []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, strings.Fields(line)...)
	}
	return args, nil
}

// runTest builds the pipeline described by the test and returns what cgpipe printed.
func runTest(testCase TestCase) (string, error) {
	args, err := readArgs(testCase.ArgsFile)
	if err != nil {
		return "", err
	}
	cmd := exec.Command("go", append([]string{"run", "github.com/iley/cgpipe/cmd/cgpipe"}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return string(output), fmt.Errorf("exit status %d\nStderr: %s", exitError.ExitCode(), string(exitError.Stderr))
		}
		return "", err
	}
	return string(output), nil
}

// runSingleTest runs a single test case and returns pass/fail status
func runSingleTest(testCase TestCase) (bool, string) {
	fmt.Printf("Running test %s... ", testCase.Name)

	actualOutput, err := runTest(testCase)
	if err != nil {
		return false, fmt.Sprintf("cgpipe error: %v", err)
	}

	content, err := os.ReadFile(testCase.ExpectedFile)
	if err != nil {
		return false, fmt.Sprintf("error reading expected output: %v", err)
	}
	expectedOutput := string(content)

	if actualOutput == expectedOutput {
		return true, ""
	}
	return false, fmt.Sprintf("output mismatch:\nExpected: %q\nActual:   %q", expectedOutput, actualOutput)
}

// findTestCase finds a test case by number or path
func findTestCase(tests []TestCase, identifier string) (*TestCase, error) {
	if strings.Contains(identifier, "/") || strings.HasSuffix(identifier, ".args") {
		identifier = strings.TrimSuffix(identifier, ".args")
		identifier = strings.TrimPrefix(identifier, "tests/")

		for _, test := range tests {
			if test.Name == identifier {
				return &test, nil
			}
		}
		return nil, fmt.Errorf("test not found: %s", identifier)
	}

	// If identifier is just a number, find test that starts with that number
	for _, test := range tests {
		if strings.HasPrefix(test.Name, identifier+"_") || test.Name == identifier {
			return &test, nil
		}
	}

	return nil, fmt.Errorf("test not found: %s", identifier)
}

func main() {
	testsDir := "tests"
	tests, err := discoverTests(testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}

	if len(tests) == 0 {
		fmt.Println("No tests found in tests/ directory")
		return
	}

	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Name < tests[j].Name
	})

	var testsToRun []TestCase
	if len(os.Args) > 1 {
		testCase, err := findTestCase(tests, os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		testsToRun = []TestCase{*testCase}
		fmt.Printf("Running specific test: %s\n", testCase.Name)
	} else {
		testsToRun = tests
		if len(tests) == 1 {
			fmt.Printf("Found 1 test\n")
		} else {
			fmt.Printf("Found %d tests\n", len(tests))
		}
	}

	passed := 0
	failed := 0

	for _, test := range testsToRun {
		success, errorMsg := runSingleTest(test)
		if success {
			fmt.Println("PASS")
			passed++
		} else {
			fmt.Printf("FAIL - %s\n", errorMsg)
			failed++
		}
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed. All good!\n", passed)
	} else {
		fmt.Printf("Test Results: %d passed, %d failed\n", passed, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
