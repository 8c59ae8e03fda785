// expect-runner is a regression-test runner for an external interpreter.
//
// Each NAME.test fixture in the fixture directory holds a source program and
// its expected output, separated by a line that reads exactly
//
//	---* EXPECT *---
//
// For every fixture the source is written to NAME.source, the interpreter is
// run with that path as its only positional argument, and its standard output
// is compared byte for byte with the expectation. Passing fixtures leave
// nothing behind; failing ones keep NAME.source, NAME.expect and NAME.result
// for inspection. A self-contained HTML report (test_results.html) links to
// them.
//
// Example:
//
//	export EXPECT_RUNNER_INTERPRETER=/usr/lib/jvm/java-21/bin/java
//	export EXPECT_RUNNER_CLASSPATH=../target/classes
//	export EXPECT_RUNNER_ARGS=com.colossalg.Jocks
//	cd test && expect-runner
//
// Output:
//
//	PASS add
//	FAIL bad
//	    output mismatch (-expect +result):
//	      string(
//	    - 	"3\n",
//	    + 	"2\n",
//	      )
//	1 of 2 tests failed. Report: test_results.html
//
// Run expect-runner --clean to remove the report and every artifact.
//
// Settings may also live in expect-runner.yaml next to the fixtures:
//
//	interpreter: /usr/lib/jvm/java-21/bin/java
//	classpath: ../target/classes
//	args: [com.colossalg.Jocks]
//	timeout: 10s
//	open_report: true
package main
