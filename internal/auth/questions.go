package auth

// secretQuestions is the fixed pool a user picks from at sign-up. The question
// text is stored in plain on the user record; only the answer is hashed.
var secretQuestions = []string{
	"What was the name of your first pet?",
	"What is your mother's maiden name?",
	"What is your father's first name?",
	"What was the name of your primary school?",
	"What is the name of your childhood best friend?",
	"What is the name of the street you grew up on?",
	"What was the name of your first teacher?",
	"What was the model of your first car?",
	"What is your home town?",
	"What was your first job?",
	"Who is your favourite singer or band?",
	"What is your favourite colour?",
	"What is the name of your current pet?",
	"What is your favourite holiday destination?",
	"What is the first name of your favourite grandparent?",
}

// SecretQuestions returns the question pool for sign-up and reset forms.
func SecretQuestions() []string {
	out := make([]string, len(secretQuestions))
	copy(out, secretQuestions)
	return out
}

// KnownQuestion reports whether q belongs to the fixed pool.
func KnownQuestion(q string) bool {
	for _, s := range secretQuestions {
		if s == q {
			return true
		}
	}

	return false
}
