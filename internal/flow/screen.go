package flow

import "fmt"

// Screen is the active step of the app.
type Screen int

const (
	Welcome Screen = iota
	Login
	Register
	Interests
	Quiz
	Result
	Profile
	End
)

var screenNames = [...]string{
	Welcome:   "welcome",
	Login:     "login",
	Register:  "register",
	Interests: "interests",
	Quiz:      "quiz",
	Result:    "result",
	Profile:   "profile",
	End:       "end",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return screenNames[s]
}

func (s Screen) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(screenNames) {
		return nil, fmt.Errorf("unknown screen %d", int(s))
	}
	return []byte(screenNames[s]), nil
}

func (s *Screen) UnmarshalText(text []byte) error {
	parsed, err := ParseScreen(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScreen returns the screen with the given lowercase name.
func ParseScreen(name string) (Screen, error) {
	for i, n := range screenNames {
		if n == name {
			return Screen(i), nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// action is the operation allowed to take an edge. One edge may be taken by
// several operations (end → welcome is both a plain navigation and a logout).
type action uint8

const (
	actNavigate action = 1 << iota
	actStartQuiz
	actAnswer
	actNext
	actReplay
	actProfile
	actLogout
)

type edge struct {
	from, to Screen
}

var transitions = map[edge]action{
	{Welcome, Login}:    actNavigate,
	{Welcome, Register}: actNavigate,
	{Welcome, Quiz}:     actStartQuiz,

	{Login, Welcome}: actNavigate,
	{Login, Profile}: actNavigate,

	{Register, Welcome}:   actNavigate,
	{Register, Interests}: actNavigate,

	{Interests, Register}: actNavigate,
	{Interests, Quiz}:     actStartQuiz,

	{Quiz, Result}:  actAnswer,
	{Quiz, Welcome}: actNavigate,

	{Result, Quiz}: actNext,
	{Result, End}:  actNext,

	{Profile, Quiz}:    actStartQuiz,
	{Profile, Welcome}: actLogout,

	{End, Welcome}: actNavigate | actLogout,
	{End, Quiz}:    actReplay,
	{End, Profile}: actProfile,
}

// CanTransition reports whether the table declares an edge from → to.
func CanTransition(from, to Screen) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// Targets lists the screens reachable from s, in declaration order.
func Targets(s Screen) []Screen {
	var out []Screen
	for to := range screenNames {
		if CanTransition(s, Screen(to)) {
			out = append(out, Screen(to))
		}
	}
	return out
}

func allowed(from, to Screen, act action) bool {
	return transitions[edge{from, to}]&act != 0
}
