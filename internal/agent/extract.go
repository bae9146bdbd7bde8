package agent

import "strings"

// ExtractCode pulls Python source out of a model response. A ```python fence
// wins, then a generic fence, then the trimmed response as-is.
func ExtractCode(response string) string {
	if idx := strings.Index(response, "```python"); idx >= 0 {
		rest := response[idx+len("```python"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if strings.Contains(response, "```") {
		parts := strings.Split(response, "```")
		if len(parts) >= 3 {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(response)
}
