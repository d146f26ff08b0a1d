package board

func gain(amount int, text string) *Event {
	return &Event{Kind: GainMoney, Amount: amount, Text: text}
}

func lose(amount int, text string) *Event {
	return &Event{Kind: LoseMoney, Amount: amount, Text: text}
}

func random(min, max int, text string) *Event {
	return &Event{Kind: RandomMoney, Amount: max, MinAmount: min, Text: text}
}

func steal(amount int, text string) *Event {
	return &Event{Kind: StealMoney, Amount: amount, Text: text}
}

func normal(next int, ev *Event) Square {
	return Square{Kind: KindNormal, Next: []int{next}, Event: ev}
}

// defaultSquares is the built-in 35 square track. Square 10 splits into a
// mountain route (11-17) and a coast route (18-24) that merge again at 25.
var defaultSquares = []Square{
	{Kind: KindStart, Next: []int{1}},
	normal(2, gain(100, "New Year's gift! +100")),
	normal(3, nil),
	normal(4, lose(50, "Bought juice from a vending machine -50")),
	normal(5, random(-100, 200, "Gamble!")),
	normal(6, nil),
	normal(7, gain(150, "Part-time wages! +150")),
	normal(8, nil),
	normal(9, lose(100, "Lost your train ticket -100")),
	normal(10, nil),

	{Kind: KindBranch, Next: []int{11, 18}, BranchLabels: []string{"Mountain route", "Coast route"}},

	// mountain: high risk, high return
	normal(12, gain(300, "Struck gold in the mountains! +300")),
	normal(13, lose(200, "Fell off a cliff, hospital bill -200")),
	normal(14, nil),
	normal(15, random(-300, 500, "Mountain casino, all in!")),
	normal(16, nil),
	normal(17, gain(200, "Sold wild herbs! +200")),
	normal(25, nil),

	// coast: low risk
	normal(19, gain(100, "Sold your catch! +100")),
	normal(20, nil),
	normal(21, gain(100, "Sold seashells +100")),
	normal(22, lose(50, "Bought sunscreen -50")),
	normal(23, nil),
	normal(24, gain(100, "Surf lesson fee +100")),
	normal(25, nil),

	normal(26, steal(100, "A share from whoever is on top!")),
	normal(27, nil),
	normal(28, lose(150, "Paid your taxes -150")),
	normal(29, random(-200, 300, "The last big bet!")),
	normal(30, nil),
	normal(31, gain(100, "Found money on the road +100")),
	normal(32, nil),
	normal(33, lose(50, "Shrine offering -50")),
	normal(34, nil),
	{Kind: KindGoal, Next: []int{}, Event: &Event{Kind: GoalBonus, Text: "Goal!"}},
}

// Default returns the built-in board.
func Default() *Board {
	b, err := New(defaultSquares)
	if err != nil {
		panic("board: built-in board is invalid: " + err.Error())
	}
	return b
}
