package calc

type Token int

const (
	EOF Token = iota
	Error

	// Ident does not tell variables, functions and named operators (AND,
	// OR) apart.
	Ident
	// Delim is any delimiting sequence: + - * / , ; = == < <= > >=.
	// The lexer does not care if it is an operator or a separator.
	Delim
	Number
	String
	OpenParen
	CloseParen
)

func (tok Token) String() string {
	switch tok {
	case EOF:
		return "EOF"
	case Error:
		return "ERROR"
	case Ident:
		return "IDENT"
	case Delim:
		return "DELIM"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case OpenParen:
		return "OPEN_PAREN"
	case CloseParen:
		return "CLOSE_PAREN"
	}
	return "UNKNOWN"
}

// Fault is the payload of an Error token.
type Fault int

const (
	NoFault Fault = iota
	FaultAfterNumber
	FaultUnterminated
	FaultBadIdent
)

func (f Fault) String() string {
	switch f {
	case NoFault:
		return ""
	case FaultAfterNumber:
		return "Unexpected symbol after number"
	case FaultUnterminated:
		return "Eof found"
	case FaultBadIdent:
		return "Bad identifier char"
	}
	return "Unknown fault"
}
