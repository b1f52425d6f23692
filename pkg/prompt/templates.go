package prompt

// Built-in template names.
const (
	TemplateRoadmap         = "roadmap"
	TemplateCourses         = "courses"
	TemplateProjects        = "projects"
	TemplateQuiz            = "quiz"
	TemplateStepDescription = "step_description"
)

// roadmapTemplate asks for a 6-8 step learning roadmap. The JSON shape in the
// prompt is advisory only; nothing validates the model's output against it.
const roadmapTemplate = `Given the following skill/topic - "{{topic}}", create a learning roadmap in JSON format.
The roadmap will be like a tree which will be having branches. Each branch corresponds to a step (skill/task).
The step should also come with a description.
The steps and it's description should be unambiguous.
The description should also briefly mention the general topic of the text so that it can be understood by the student on how to learn that skill.
Minimum of 6 steps. Maximum of 8 steps.
respond with JSON only, no markdown or descriptions.

example JSON format you should absolutely follow:
{
  "topic": "a brief explanation of the topic and it's demand in the market",
  "steps": [
    {
      "step": "Step title",
      "description": "Explanation of what needs to be done in this step"
    },
    {
      "step": "Step title",
      "description": "Explanation of what needs to be done in this step"
    }, ...

  ]
}
`

const coursesTemplate = `Given the following skill/topic - "{{topic}}", recommend online courses to learn it.
Recommend a minimum of 10 courses from well known course providers.
Each course must come with its name and a working URL to the course page.
respond with JSON only, no markdown or descriptions.

example JSON format you should absolutely follow:
{
  "topic": "a brief explanation of the topic and it's demand in the market",
  "courses": [
    {
      "name": "Course name",
      "url": "https://provider.com/course"
    },
    {
      "name": "Course name",
      "url": "https://provider.com/course"
    }, ...

  ]
}
`

const projectsTemplate = `Given the following skill/topic - "{{topic}}", recommend practice projects for a student learning it.
Recommend a minimum of 5 projects, ordered from beginner to advanced.
Each project must come with a title, a short description of what to build, and the tech stack to use.
respond with JSON only, no markdown or descriptions.

example JSON format you should absolutely follow:
{
  "topic": "a brief explanation of the topic and it's demand in the market",
  "projects": [
    {
      "title": "Project title",
      "description": "What to build and why it teaches the skill",
      "tech_stack": "Comma separated technologies"
    },
    {
      "title": "Project title",
      "description": "What to build and why it teaches the skill",
      "tech_stack": "Comma separated technologies"
    }, ...

  ]
}
`

const quizTemplate = `Given the following skill/topic - "{{topic}}", create a quiz to test a student on it.
The quiz must have exactly 5 questions.
Each question has exactly 4 options, prefixed "a. ", "b. ", "c. " and "d. ".
right_option is the letter of the correct option: "a", "b", "c" or "d".
respond with JSON only, no markdown or descriptions.

example JSON format you should absolutely follow:
{
  "topic": "a brief explanation of the topic and it's demand in the market",
  "questions": [
    {
      "id": 1,
      "question": "The question text",
      "options": ["a. first option", "b. second option", "c. third option", "d. fourth option"],
      "right_option": "b"
    }, ...

  ]
}
`

const stepDescriptionTemplate = `Write a short and consise description of about 50 words on {{step}} with repect to {{topic}}. Please only provide plain text. Do not give markdowns or special characters.`

// StepDescriptionSystemRole frames the step-description call; the JSON use
// cases send no system message.
const StepDescriptionSystemRole = "You are a content writer who provides description, uses, trends on a specified skill or Job Role"

// BuiltinRegistry returns the registry of all shipped templates. It is built
// once at process start; a validation failure here is fatal by design.
func BuiltinRegistry() (*Registry, error) {
	return NewRegistry(
		Template{Name: TemplateRoadmap, Text: roadmapTemplate, Slots: []string{"topic"}},
		Template{Name: TemplateCourses, Text: coursesTemplate, Slots: []string{"topic"}},
		Template{Name: TemplateProjects, Text: projectsTemplate, Slots: []string{"topic"}},
		Template{Name: TemplateQuiz, Text: quizTemplate, Slots: []string{"topic"}},
		Template{Name: TemplateStepDescription, Text: stepDescriptionTemplate, Slots: []string{"topic", "step"}},
	)
}
