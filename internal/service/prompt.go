package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"learncraft/internal/model"
)

// promptSubject is the subject shape embedded into the prompt.
type promptSubject struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// promptRoutine is the routine shape embedded into the prompt.
type promptRoutine struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// BuildSchedulePrompt serializes the selection into the instruction set sent
// to the generator. The rules constrain output shape and heuristics:
// priority-proportional durations, no overlap with routines, consolidated
// blocks and inserted breaks.
func BuildSchedulePrompt(subjects []model.Subject, priorities model.PriorityMap, routines []model.Routine) string {
	ps := make([]promptSubject, 0, len(subjects))
	for _, sub := range subjects {
		ps = append(ps, promptSubject{ID: sub.ID, Name: sub.Name, Color: sub.Color})
	}
	pr := make([]promptRoutine, 0, len(routines))
	for _, r := range routines {
		pr = append(pr, promptRoutine{Name: r.Name, StartTime: r.StartTime, EndTime: r.EndTime})
	}

	subjectsJSON, _ := json.Marshal(ps)
	routinesJSON, _ := json.Marshal(pr)
	prioritiesJSON, _ := json.Marshal(priorities)

	var b strings.Builder
	b.WriteString("Act as an expert academic scheduler. Create a daily schedule (06:00 - 00:00) strictly as a JSON Array.\n\n")
	b.WriteString("**Inputs:**\n")
	b.WriteString(fmt.Sprintf("- Fixed Routines (Cannot be changed): %s\n", routinesJSON))
	b.WriteString(fmt.Sprintf("- Subjects: %s\n", subjectsJSON))
	b.WriteString(fmt.Sprintf("- Priorities (1 = Low, 5 = High): %s\n\n", prioritiesJSON))
	b.WriteString("**CRITICAL RULES FOR GENERATION:**\n\n")
	b.WriteString("1. **Time Allocation based on Priority:**\n")
	b.WriteString("   - **Priority 5:** MUST receive the longest blocks (e.g., 1.5 to 2 hours) or multiple sessions.\n")
	b.WriteString("   - **Priority 4:** Receive significant time (e.g., 1 to 1.5 hours).\n")
	b.WriteString("   - **Priority 3:** Standard duration (e.g., 45 mins to 1 hour).\n")
	b.WriteString("   - **Priority 1-2:** Fill smaller gaps or shorter review sessions (30-45 mins).\n")
	b.WriteString("   - Do not schedule Priority 1 subjects if Priority 5 subjects haven't been given enough time.\n\n")
	b.WriteString("2. **Respect Routines:**\n")
	b.WriteString("   - Absolutely NO overlaps with Fixed Routines.\n")
	b.WriteString("   - Do not schedule study sessions inside routines.\n\n")
	b.WriteString("3. **Consolidation (Important):**\n")
	b.WriteString("   - **Do NOT split continuous activities.** If a student studies \"Math\" from 09:00 to 11:00, return ONE object: {\"time\": \"09:00 - 11:00\", ...}.\n")
	b.WriteString("   - Do not create separate 30-minute blocks for the same activity consecutively.\n\n")
	b.WriteString("4. **Logic:**\n")
	b.WriteString("   - Insert 10-15 minute \"Break\" sessions between long study blocks to avoid burnout.\n\n")
	b.WriteString("5. **Output Format:**\n")
	b.WriteString("   - JSON Keys: \"time\" (e.g., \"08:00 - 09:30\"), \"activity\", \"type\" (\"study\"|\"routine\"|\"break\"), \"color\".\n")
	b.WriteString(fmt.Sprintf("   - \"color\": Use %s. Pick a color that matches the subject list if possible.\n\n", quotedPalette()))
	b.WriteString("**Return ONLY raw JSON. No markdown.**\n")
	return b.String()
}

func quotedPalette() string {
	quoted := make([]string, len(model.Colors))
	for i, c := range model.Colors {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}
