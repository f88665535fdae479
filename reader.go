package ringlex

// Consume and return the next codepoint, decoding it from the source first
// if nothing is buffered ahead of the cursor.
func (s *Scanner[T, E]) Next() rune {
	if s.pos == s.read {
		s.buf[s.read&s.mask] = s.decode()
		s.read++
	}
	r := s.buf[s.pos&s.mask]
	s.pos++
	return r
}

// Return the next codepoint without advancing.
func (s *Scanner[T, E]) Peek() rune {
	r := s.Next()
	s.pos--
	return r
}

// Backup moves the cursor back n codepoints. It panics with
// ErrBackupOverflow if n is negative, goes before the start of input, or
// reaches a codepoint that has already left the ring.
func (s *Scanner[T, E]) Backup(n int) {
	if n < 0 || n > s.pos || s.pos-n < s.read-len(s.buf) {
		panic(ErrBackupOverflow)
	}
	s.pos -= n
}

func (s *Scanner[T, E]) BackupOne() {
	s.Backup(1)
}

// NextAppend consumes the next codepoint and adds it to the lexeme.
func (s *Scanner[T, E]) NextAppend() rune {
	return s.Append(s.Next())
}

// Append adds r to the lexeme and returns it. EOF is never appended.
func (s *Scanner[T, E]) Append(r rune) rune {
	if r != EOF {
		s.acc.Append(r)
	}
	return r
}
