package prompts

import "fmt"

// Blueprint выбирает шаблон мастер-промпта по типу интервью
func Blueprint(interviewType, synthesizedJSON, position, company string) string {
	switch interviewType {
	case "technical_only":
		return technicalOnlyBlueprint(synthesizedJSON, position, company)
	case "behavioral_only":
		return behavioralOnlyBlueprint(synthesizedJSON, position, company)
	default:
		return technicalBehavioralBlueprint(synthesizedJSON, position, company)
	}
}

// technicalOnlyBlueprint: план из 8-10 сугубо технических вопросов,
// поведенческие темы явно запрещены
func technicalOnlyBlueprint(synthesizedJSON, position, company string) string {
	return fmt.Sprintf(`# ROLE: You are a senior hiring manager and a top-tier technical expert in the candidate's field.

## GOAL
Your task is to create a complete and challenging **technical-only** interview plan. The plan must exclusively assess the candidate's technical depth, problem-solving abilities, and hands-on skills.

## CRITICAL RULE
You MUST ONLY generate `+"`topic_modules`"+` based on the `+"`key_technical_skills`"+` from the synthesized data. You are **FORBIDDEN** from creating topics based on the `+"`key_behavioral_competencies`"+` (e.g., "teamwork," "self-starter," "communication"). The interview must remain 100%% technical.

## CONTEXT
- **Synthesized Data JSON:** %s
- **Job Title:** %s
- **Company Name:** %s

## INSTRUCTIONS
1.  **Create Technical Topic Modules:** Generate 4-5 distinct `+"`topic_modules`"+` based ONLY on the candidate's technical skills and project experience.
2.  **Generate Probing Questions:** For each topic, create a sharp `+"`opening_question`"+` that requires the candidate to provide specific, evidence-based technical details.

## OUTPUT FORMAT
You MUST respond ONLY with a single, valid JSON object for the interview plan.

{
  "interviewer_directives": [
    "Primary Goal: Probe for understanding of trade-offs and technical decision-making",
    "Secondary Goal: Assess problem-solving process, not just the final answer",
    "Focus: Technical depth over breadth, hands-on experience validation"
  ],
  "interview_plan": {
    "job_title": "%s",
    "company_name": "%s",
    "interview_flow": [
      {
        "phase": "Technical Introduction",
        "question_id": "TECH_INTRO_01",
        "question_text": "Walk me through your technical background and the projects you're most proud of for this %s role at %s.",
        "intent": "Technical background assessment"
      }
    ]
  }
}`, synthesizedJSON, position, company, position, company, position, company)
}

// behavioralOnlyBlueprint: план из 6-8 поведенческих вопросов под STAR метод
func behavioralOnlyBlueprint(synthesizedJSON, position, company string) string {
	return fmt.Sprintf(`# ROLE: You are an expert behavioral interviewer and senior hiring manager representing the values of %s.

## GOAL
Your task is to create a complete, personalized, and insightful behavioral interview plan. The plan must focus exclusively on assessing competencies like teamwork, leadership, problem-solving, and communication using the STAR method.

## CONTEXT
- **Synthesized Data JSON:** %s
- **Job Title:** %s
- **Company Name:** %s

## INSTRUCTIONS
1.  **Create Behavioral Topic Modules:** Generate 4-5 distinct `+"`topic_modules`"+`. Each topic MUST be a core behavioral competency derived from the `+"`key_behavioral_competencies`"+` in the synthesized data (e.g., "Teamwork & Collaboration," "Ownership & Initiative," "Handling Conflict," "Adaptability").
2.  **Generate STAR-based Questions:** For each topic, create an `+"`opening_question`"+` that prompts the candidate to tell a specific story from a project on their resume. The question should be framed to elicit a STAR (Situation, Task, Action, Result) response.
3.  **Create Interviewer Directives:** Generate 2-3 `+"`interviewer_directives`"+` focused on what to look for.

## OUTPUT FORMAT
You MUST respond ONLY with a single, valid JSON object for the interview plan.

{
  "interviewer_directives": [
    "Primary Goal: Probe for personal contribution ('I' vs 'we')",
    "Secondary Goal: Ensure the candidate describes a measurable result",
    "Focus: Complete STAR stories with specific behavioral evidence"
  ],
  "interview_plan": {
    "job_title": "%s",
    "company_name": "%s",
    "interview_flow": [
      {
        "phase": "Behavioral Introduction",
        "question_id": "BEH_INTRO_01",
        "question_text": "Tell me about your professional background and what draws you to this %s role at %s.",
        "intent": "Behavioral background assessment"
      }
    ]
  }
}`, company, synthesizedJSON, position, company, position, company, position, company)
}

// technicalBehavioralBlueprint: комбинированный план. Ключевое правило —
// вопросы о прошлом опыте строятся только на фактах из резюме,
// гипотетические — только на требованиях вакансии, которых в резюме нет
func technicalBehavioralBlueprint(synthesizedJSON, position, company string) string {
	return fmt.Sprintf(`You are a senior hiring manager and a distinguished subject matter expert in the field of %s. Your task is to create a complete interview blueprint based on the evidence provided.

**!! CRITICAL RULE FOR QUESTION FRAMING !!**
You MUST differentiate between the candidate's experience (from the resume) and the job's requirements (from the JD). Frame questions about the candidate's past experience using ONLY information found in their resume. Frame hypothetical questions to see how they would handle requirements from the JD that are NOT in their resume.

**Inputs:**
- Synthesized Data JSON: %s
- Job Title: %s
- Company Name: %s

**Instructions:**
1.  **Generate Interviewer Directives:** Based on the inputs, first create a short list of 2-3 strategic goals for this specific interview. This will guide the tone and focus.
2.  **Use the Strategic Plan:** You MUST build your questions directly from the highly specific topics listed in the `+"`potential_question_areas`"+` array.
3.  **Prioritize Depth:** Your plan should focus on going deep on 2-3 key projects rather than asking many superficial questions.

**Output Format:** You MUST respond ONLY with a single, valid JSON object including the `+"`interviewer_directives`"+` key.

{
  "interviewer_directives": [
    "Primary Goal: Validate the quantifiable achievements on the resume. Ask for specific data and methods.",
    "Secondary Goal: Assess hands-on knowledge of core skills from the JD by grounding questions in past projects.",
    "Behavioral Focus: Probe for examples of competencies mentioned in the JD."
  ],
  "interview_plan": {
    "job_title": "%s",
    "company_name": "%s",
    "interview_flow": [
      {
        "phase": "Introduction & Opening (5 mins)",
        "question_id": "OPENER_01",
        "question_text": "Thanks for your time today. To start, could you walk me through your resume and highlight the experience you feel is most relevant for this role at %s?",
        "intent": "Icebreaker and to understand the candidate's self-perception."
      },
      {
        "phase": "Problem-Solving / Case Study (15 mins)",
        "question_id": "CASE_01",
        "question_text": "Generate a domain-specific hypothetical scenario aligned with potential_question_areas and the JD. Ensure the framing respects the Critical Rule.",
        "intent": "Assess problem-solving skills and domain knowledge in a live scenario."
      },
      {
        "phase": "Candidate Questions & Closing (5 mins)",
        "question_id": "CLOSING_01",
        "question_text": "That's all my questions for you. Now, what questions do you have for me about the role, the team, or the culture here?",
        "intent": "Evaluate candidate's curiosity and engagement."
      }
    ]
  }
}`, position, synthesizedJSON, position, company, position, company, company)
}
