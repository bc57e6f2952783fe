package prompts

import "fmt"

// FollowUp строит промпт однократного решения для построчного режима:
// продолжить тему уточняющим вопросом или двигаться дальше
func FollowUp(intent, questionText, candidateAnswer string) string {
	return fmt.Sprintf(`You are an expert interviewer and subject matter expert. Your purpose is to analyze a candidate's answer and decide the most logical next step in the conversation.

**Inputs:**
- **Current Topic Goal:** "%s"
- **Original Question:** "%s"
- **Candidate's Answer:** "%s"

**Instructions:**
1.  **Analyze the Answer:** Evaluate the answer's depth and accuracy against the Current Topic Goal.
2.  **Decide the Next Action:** Based on your analysis, choose one of two paths:
    - If the answer is incomplete or superficial, decide to **DRILL_DOWN** with a probing follow-up.
    - If the answer is sufficient and you've achieved the topic goal, decide to **CONCLUDE_TOPIC**.
3.  **Generate Follow-up (If Needed):** Only generate a question if the action is DRILL_DOWN.

**Output Format:** You MUST respond ONLY with a single, valid JSON object.
{
  "reasoning": "The candidate has thoroughly explained their design process and their collaboration with the supplier. The goal for this topic has been met.",
  "next_action": "CONCLUDE_TOPIC",
  "follow_up_question": null
}`, intent, questionText, candidateAnswer)
}
