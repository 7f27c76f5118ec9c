package model

import "strings"

// blacklist is the set of very frequent identifiers and keywords that
// would otherwise flood defs with noise.
var blacklist = map[string]struct{}{
	"NULL": {}, "__": {}, "adapter": {}, "addr": {}, "arg": {}, "attr": {},
	"base": {}, "bp": {}, "buf": {}, "buffer": {}, "c": {}, "card": {},
	"char": {}, "chip": {}, "cmd": {}, "codec": {}, "const": {}, "count": {},
	"cpu": {}, "ctx": {}, "data": {}, "default": {}, "define": {}, "desc": {},
	"dev": {}, "driver": {}, "else": {}, "end": {}, "endif": {}, "entry": {},
	"err": {}, "error": {}, "event": {}, "extern": {}, "failed": {}, "flags": {},
	"h": {}, "host": {}, "hw": {}, "i": {}, "id": {}, "idx": {}, "if": {},
	"index": {}, "info": {}, "inline": {}, "int": {}, "irq": {}, "j": {},
	"len": {}, "length": {}, "list": {}, "lock": {}, "long": {}, "mask": {},
	"mode": {}, "msg": {}, "n": {}, "name": {}, "net": {}, "next": {},
	"offset": {}, "ops": {}, "out": {}, "p": {}, "pdev": {}, "port": {},
	"priv": {}, "ptr": {}, "q": {}, "r": {}, "rc": {}, "rdev": {}, "reg": {},
	"regs": {}, "req": {}, "res": {}, "result": {}, "ret": {}, "return": {},
	"retval": {}, "root": {}, "s": {}, "sb": {}, "size": {}, "sizeof": {},
	"sk": {}, "skb": {}, "spec": {}, "start": {}, "state": {}, "static": {},
	"status": {}, "struct": {}, "t": {}, "tmp": {}, "tp": {}, "type": {},
	"val": {}, "value": {}, "vcpu": {}, "x": {},
}

// blacklistTS reproduces lib.py's blacklist_ts: a keyword-only blacklist
// used for the TypeScript family, which doesn't share the C-family
// high-frequency-variable-name blacklist above.
var blacklistTS = map[string]struct{}{
	"import": {}, "export": {}, "from": {}, "type": {}, "boolean": {},
	"string": {}, "return": {}, "const": {}, "let": {}, "interface": {},
	"class": {}, "extends": {}, "implements": {}, "public": {}, "private": {},
	"protected": {}, "static": {}, "abstract": {}, "async": {}, "await": {},
	"new": {}, "super": {}, "any": {}, "unknown": {}, "never": {}, "void": {},
	"null": {}, "undefined": {}, "number": {}, "bigint": {}, "symbol": {},
	"object": {}, "keyof": {}, "unique": {}, "infer": {}, "is": {},
	"asserts": {}, "module": {}, "namespace": {}, "enum": {}, "as": {},
	"of": {}, "assert": {}, "yield": {}, "break": {}, "case": {}, "catch": {},
	"continue": {}, "default": {}, "delete": {}, "do": {}, "else": {},
	"finally": {}, "for": {}, "function": {}, "if": {}, "in": {},
	"instanceof": {}, "throw": {}, "try": {}, "var": {}, "while": {},
	"with": {}, "package": {}, "internal": {}, "declare": {}, "global": {},
	"typeof": {},
}

// IsIdent reports whether s is eligible to become a new defs key for the
// given family. For the TS family the only test is the keyword blacklist
// blacklistTS; for every other family s must be at least two bytes, not
// start with '~', and not be in blacklist.
func IsIdent(s string, family Family) bool {
	if family == FamilyTS {
		_, blocked := blacklistTS[s]
		return !blocked
	}
	if len(s) < 2 {
		return false
	}
	if strings.HasPrefix(s, "~") {
		return false
	}
	_, blocked := blacklist[s]
	return !blocked
}
