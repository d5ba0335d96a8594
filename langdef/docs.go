/*
Package langdef converts textual grammar description to grammar.Set.

Grammar is described as a list of numbered rules, one rule per line. Self-definition of this language
(in the EBNF-like notation, spaces and line feeds between tokens are significant) is:
*/
//  $id = /\d+/; $literal = /"[a-zA-Z]+"/;
//  $def = /: /; $alt = / \| /; $space = / /; $nl = /\r?\n/;
//  $error = /"[^"\n]*"?/;
//
//  !error $error;
//
//  grammar = {rule, ($nl | $eof)}, [$nl, {candidate}];
//  rule = $id, $def, body;
//  body = branch, {$alt, branch};
//  branch = item, {$space, item};
//  item = $id | $literal;
/*
A rule body consisting of a single literal produces grammar.Literal. A branch consisting of a single literal
produces grammar.Literal as well, any other branch produces grammar.Sequence of references and literals.
A body consisting of a single branch produces the branch itself, a body consisting of several branches
produces grammar.Alternative.

Grammar ends either at the end of text or at the first empty line. ParseInput treats lines following
the empty line as candidate strings.

Rule ids are non-negative integers, a rule may be defined several times, the last definition wins.
References are not checked: a rule may refer to an undefined rule, the error is reported by matcher.

Errors are reported as *rulex.Error with source position, offending line (Error.Text),
and context trail (Error.Trail) listing constructs being parsed, innermost first.
*/
package langdef
