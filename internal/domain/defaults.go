package domain

// DefaultQuestions is the built-in bank used when the configured bank cannot be loaded.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:          "q_0001",
			Level:       1,
			Category:    "daily",
			Question:    "How are you today?",
			Choices:     []string{"I'm fine, thank you.", "Yes, I am.", "I go to school.", "At seven o'clock."},
			Answer:      0,
			Explanation: "A natural reply to a greeting.",
		},
		{
			ID:          "q_0002",
			Level:       1,
			Category:    "daily",
			Question:    "What time is it now?",
			Choices:     []string{"It's sunny.", "It's ten o'clock.", "I'm hungry.", "Yes, please."},
			Answer:      1,
			Explanation: "Answering a question about the time.",
		},
		{
			ID:          "q_0003",
			Level:       1,
			Category:    "daily",
			Question:    "Where is the nearest station?",
			Choices:     []string{"I like trains.", "Go straight and turn left.", "Yesterday morning.", "By bus."},
			Answer:      1,
			Explanation: "Giving directions to a place.",
		},
	}
}
