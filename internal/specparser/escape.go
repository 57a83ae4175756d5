package specparser

// escapeTable implements the terminal escape table from spec §4.4: the
// byte following an unescaped '@' is looked up here; a hit yields the
// decoded literal, a miss is a non-fatal warning (the byte passes through
// unchanged) rather than a fatal error.
var escapeTable = map[byte]byte{
	'_': ' ',
	'@': '@',
	'|': '|',
	'*': '*',
	'$': '$',
}
