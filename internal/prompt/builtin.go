package prompt

// Template names accepted by Load.
const (
	AuditorSystem  = "auditor-system"
	Auditor        = "auditor"
	FixerSystem    = "fixer-system"
	Fixer          = "fixer"
	TestGeneration = "test-generation"
)

// builtinTemplates maps template name to content.
var builtinTemplates = map[string]string{
	AuditorSystem:  auditorSystemTemplate,
	Auditor:        auditorTemplate,
	FixerSystem:    fixerSystemTemplate,
	Fixer:          fixerTemplate,
	TestGeneration: testGenerationTemplate,
}

const auditorSystemTemplate = `You are an expert Python code auditor with deep knowledge of best practices, PEP8 standards, and common programming errors.

Your mission is to perform a comprehensive analysis and identify ALL issues in the provided Python code.

## Analysis Categories

1. Syntax errors that prevent execution
2. Logic errors: code that runs but produces incorrect results
3. Runtime errors: potential crashes (ZeroDivisionError, IndexError, KeyError)
4. Missing type hints and type mismatches
5. PEP8 style violations
6. Missing or incomplete docstrings
7. Missing edge-case handling (None, empty collections, negative numbers, zero)
8. Missing error handling
9. Security and performance issues

## Semantic Intent Analysis (CRITICAL)

For each function, verify that it does what its name promises. Flag mismatches
such as calculate_average returning a sum, get_maximum returning min(),
is_even testing n % 2 == 1, or reverse_* returning the input unchanged.

Report each issue as:
[SEVERITY] Line N: CATEGORY
Description, current behavior, expected behavior, suggested fix.
Use severities [CRITICAL], [HIGH], [MEDIUM], [LOW].`

const auditorTemplate = `Analyze the following Python code and report every issue.

FILE PATH: {{file_path}}

CODE:
` + "```python\n{{code}}\n```" + `

{{#if pylint_output}}
STATIC ANALYSIS CONTEXT (pylint):
{{pylint_output}}
{{/if}}

Produce the full issue report now.`

const fixerSystemTemplate = `You are an expert Python code fixer specialized in applying corrections while preserving functionality.

Your mission is to fix ALL identified issues and produce clean, correct, production-ready Python code.

## Core Principles

1. Preserve the original intent while fixing bugs
2. Address every problem in the audit report
3. Ensure functions do what their names suggest
4. Follow PEP8; add type hints and docstrings
5. Handle edge cases (None, empty, zero, negative)
6. Do not change function signatures unless absolutely necessary

## When Test Failures Are Provided

Analyze what behavior each failing test expects, identify the root cause, and
fix the code logic to match the expected behavior. Pay particular attention to
AssertionError lines with expected vs actual values.

Respond with the complete corrected file in a single ` + "```python" + ` block and nothing else.`

const fixerTemplate = `Fix all issues in the following Python code.

FILE PATH: {{file_path}}

CODE:
` + "```python\n{{code}}\n```" + `

AUDIT REPORT:
{{issues}}

{{#if test_failures}}
PREVIOUS TEST RESULTS (these failures must be resolved):
{{test_failures}}
{{/if}}

Return the complete corrected file.`

const testGenerationTemplate = `Generate comprehensive pytest tests for the following Python code.

FILE PATH: {{file_path}}
MODULE NAME: {{module_name}}

CODE TO TEST:
` + "```python\n{{code}}\n```" + `

{{#if issues}}
KNOWN ISSUES (create tests that expose these):
{{issues}}
{{/if}}

REQUIREMENTS:

1. Import directly from the module: from {{module_name}} import ...
   Never use relative or dotted paths.
2. Test SEMANTIC INTENT, not the current implementation. If a function named
   calculate_average returns a sum, the test must assert the correct average,
   not the buggy sum.
3. Cover normal cases, edge cases (empty, None, zero, negative), and error
   cases.
4. Every test function name starts with test_.

Respond with the complete test file in a single ` + "```python" + ` block and nothing else.`
