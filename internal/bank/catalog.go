package bank

import "logic-quiz-service/internal/domain"

// Default returns the built-in catalog of boolean logic questions.
func Default() *Bank {
	b, err := New(builtinQuestions())
	if err != nil {
		panic("builtin catalog: " + err.Error())
	}
	return b
}

func item(id string, level domain.Level, prompt, code string, options []string, answer, explain string) domain.Question {
	return domain.Question{
		ID:         id,
		Level:      level,
		Prompt:     prompt,
		CodeSample: code,
		Options:    options,
		Answer:     answer,
		Rationale:  map[string]string{answer: explain},
	}
}

var truthOptions = []string{"true", "false", "compile error", "it depends"}

func builtinQuestions() []domain.Question {
	easy, medium, hard := domain.LevelEasy, domain.LevelMedium, domain.LevelHard

	q01 := item("Q01", easy, "Which declaration is valid in Java?", "",
		[]string{`boolean ok = true;`, `boolean ok = "true";`, `boolean ok = 1;`, `boolean ok = True;`},
		`boolean ok = true;`,
		"A boolean only accepts the two literals true and false.")
	q01.Rationale[`boolean ok = "true";`] = `"true" in quotes is a String, not a boolean.`
	q01.Rationale[`boolean ok = 1;`] = "1 is an int; Java does not convert numbers to boolean."
	q01.Rationale[`boolean ok = True;`] = "True with a capital T does not exist in Java."

	q02 := item("Q02", easy, "Which expression evaluates to a boolean?", "",
		[]string{"10 + 5", "age >= 18", "grade * 2", `"18"`},
		"age >= 18",
		"Comparison operators (>=, <=, >, <, ==, !=) always produce a boolean.")
	q02.Rationale["10 + 5"] = "Arithmetic produces a number."
	q02.Rationale["grade * 2"] = "Arithmetic produces a number."
	q02.Rationale[`"18"`] = "Text in quotes is a String."

	return []domain.Question{
		q01,
		q02,
		item("Q03", easy, "Which operator is the logical AND in Java?", "",
			[]string{"&&", "||", "!", "=="}, "&&",
			"&& is true only when both sides are true."),
		item("Q04", easy, "Which operator is the logical OR in Java?", "",
			[]string{"&&", "||", "!=", "<="}, "||",
			"|| is true when at least one side is true."),
		item("Q05", easy, "Which operator is the logical NOT in Java?", "",
			[]string{"!", "&&", "||", "=="}, "!",
			"! flips a boolean: !true is false and !false is true."),
		item("Q06", easy, "What does this code print?", "int a = 5, b = 7;\nSystem.out.println(a > b);",
			[]string{"true", "false", "5", "7"}, "false",
			"5 > 7 is false, so it prints false."),
		item("Q07", easy, "What does this code print?", "int a = 5;\nSystem.out.println(a == 5);",
			[]string{"true", "false", "5", "compile error"}, "true",
			"5 == 5 is true, so it prints true."),
		item("Q08", easy, "What does this code print?", "boolean enrolled = false;\nSystem.out.println(!enrolled);",
			[]string{"true", "false", "compile error", "!false"}, "true",
			"!false is true, so it prints true."),
		item("Q09", easy, "Which statement best describes a boolean?", "",
			[]string{"A piece of text", "A whole number", "A type that represents true or false", "A type for decimals"},
			"A type that represents true or false",
			"A boolean holds exactly one of two values: true or false."),
		item("Q10", easy, "What does this code print?", "int grade = 6;\nSystem.out.println(grade >= 6);",
			[]string{"true", "false", "6", "compile error"}, "true",
			"6 >= 6 is true, so it prints true."),

		item("Q11", medium, "What does this code print?", "int age = 16;\nboolean hasId = true;\nSystem.out.println(age >= 18 && hasId);",
			[]string{"true", "false", "16", "compile error"}, "false",
			"16 >= 18 is false, and false && true is false."),
		item("Q12", medium, "What does this code print?", "int age = 16;\nboolean hasId = true;\nSystem.out.println(age >= 18 || hasId);",
			[]string{"true", "false", "compile error", "16"}, "true",
			"16 >= 18 is false, and false || true is true."),
		item("Q13", medium, "What does this code print?", "boolean enrolled = false;\nSystem.out.println(!!enrolled);",
			[]string{"true", "false", "compile error", "!!false"}, "false",
			"A double negation restores the original value, which is false."),
		item("Q14", medium, "Translate: \"enter if you have a ticket AND are not banned\".", "",
			[]string{"hasTicket && !banned", "hasTicket || !banned", "!hasTicket && banned", "hasTicket && banned"},
			"hasTicket && !banned",
			"Both conditions must hold: has a ticket AND is not banned."),
		item("Q15", medium, "Translate: \"may take the makeup exam if absent OR has a medical note\".", "",
			[]string{"absent && hasNote", "absent || hasNote", "!absent || hasNote", "absent && !hasNote"},
			"absent || hasNote",
			"With OR, one true condition is enough."),
		item("Q16", medium, "Translate: \"discount if student AND (paid on time OR has scholarship)\".", "",
			[]string{"isStudent && paidOnTime || hasScholarship", "isStudent && (paidOnTime || hasScholarship)", "(isStudent && paidOnTime) || hasScholarship", "isStudent || (paidOnTime && hasScholarship)"},
			"isStudent && (paidOnTime || hasScholarship)",
			"The parentheses keep \"paid on time OR has scholarship\" together."),
		item("Q17", medium, "What does this code print?", "int age = 18;\nboolean permission = false;\nSystem.out.println(age >= 18 && permission);",
			[]string{"true", "false", "compile error", "18"}, "false",
			"18 >= 18 is true, but true && false is false."),
		item("Q18", medium, "What does this code print?", "boolean a = true;\nboolean b = false;\nSystem.out.println(!(a && b));",
			truthOptions, "true",
			"(true && false) is false, and !false is true."),
		item("Q19", medium, "What does this code print?", "boolean a = true;\nboolean b = false;\nSystem.out.println(a && (b || true));",
			truthOptions, "true",
			"(false || true) is true, and true && true is true."),
		item("Q20", medium, "Which condition is equivalent to \"NOT (A OR B)\"?", "",
			[]string{"!A || !B", "!A && !B", "A && B", "!(A && B)"}, "!A && !B",
			"De Morgan: !(A || B) == (!A && !B)."),

		item("Q21", hard, "Precedence: what does this print?", "boolean x = true;\nboolean y = false;\nSystem.out.println(x || y && false);",
			truthOptions, "true",
			"&& binds first: (y && false) is false, then true || false is true."),
		item("Q22", hard, "Precedence: what does this print?", "boolean x = false;\nboolean y = true;\nSystem.out.println(x || y && false);",
			truthOptions, "false",
			"&& binds first: (true && false) is false, then false || false is false."),
		item("Q23", hard, "What does this code print?", "int a = 2;\nint b = 3;\nSystem.out.println(!(a > b) && (b > 0));",
			truthOptions, "true",
			"a > b is false, !false is true, b > 0 is true, so true && true is true."),
		item("Q24", hard, "Which expression is equivalent to \"A OR (B AND C)\"?", "",
			[]string{"(A || B) && C", "A || (B && C)", "(A && B) || C", "A && (B || C)"}, "A || (B && C)",
			"The AND must stay grouped: A || (B && C)."),
		item("Q25", hard, "Which condition means \"loginOk when user and password are not empty\"?", "",
			[]string{`user != "" && password != ""`, `user == "" && password == ""`, `user != "" || password != ""`, `!user && !password`},
			`user != "" && password != ""`,
			"Both must be filled in, so use &&. Real Java code would call isEmpty or equals."),
		item("Q26", hard, "What does this code print?", "boolean a = false;\nboolean b = false;\nSystem.out.println(!(a || b) || (a && b));",
			truthOptions, "true",
			"a || b is false, !false is true, a && b is false, so true || false is true."),
		item("Q27", hard, "What does this code print?", "boolean a = true;\nboolean b = true;\nSystem.out.println(!(a && b) || (a && b));",
			truthOptions, "true",
			"With X = (a && b) the expression is !X || X, which is always true."),
		item("Q28", hard, "What is the result of: true && false || true ?", "",
			truthOptions, "true",
			"&& first: true && false is false, then false || true is true."),
		item("Q29", hard, "Which expression is equivalent to \"(A AND B) OR (A AND C)\"?", "",
			[]string{"A && (B || C)", "(A || B) && C", "(A && B) || C", "A || (B && C)"}, "A && (B || C)",
			"Factoring: (A && B) || (A && C) equals A && (B || C)."),
		item("Q30", hard, "What does this code print?", "boolean A = false;\nboolean B = true;\nboolean C = true;\nSystem.out.println(A || B && !C);",
			truthOptions, "false",
			"!C is false, B && false is false, and A || false is false."),
	}
}
