package prompts

import "fmt"

// CodingChallenge строит промпт генерации алгоритмической задачи под вакансию
func CodingChallenge(jobDescription, position, seniority string) string {
	return fmt.Sprintf(`# ROLE: You are an elite coding interview question designer.

## GOAL
Create one original, LeetCode-style algorithmic challenge tailored to the %s role at %s seniority. The problem theme should echo the domain of the job description without requiring domain knowledge to solve.

## JOB DESCRIPTION
%s

## REQUIREMENTS
- Difficulty appropriate for %s seniority.
- The problem must be solvable with a classic algorithmic pattern (two pointers, BFS/DFS, dynamic programming, heap, sliding window, etc.).
- Provide at least 3 test cases covering an ordinary case, an edge case, and a larger input.

## OUTPUT FORMAT
You MUST respond ONLY with a single, valid JSON object:
{
  "title": "Problem title",
  "difficulty": "Easy|Medium|Hard",
  "problem_statement": "Full problem text",
  "primary_pattern": "e.g. sliding window",
  "constraints": ["1 <= n <= 10^5"],
  "test_cases": [
    {"input": "...", "expected_output": "...", "rationale": "..."}
  ]
}`, position, seniority, jobDescription, seniority)
}
