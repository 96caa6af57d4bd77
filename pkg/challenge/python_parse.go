package challenge

// Python 子集的语法树与解析器

type expr interface{}

type (
	nameExpr  struct{ id string }
	numExpr   struct{ text string }
	strExpr   struct{ value string }
	constExpr struct{ value string } // True / False / None
	tupleExpr struct{ elts []expr }
	listExpr  struct{ elts []expr }
	setExpr   struct{ elts []expr }
	dictExpr  struct{ keys, values []expr }
	binExpr   struct {
		op   string
		l, r expr
	}
	unaryExpr struct {
		op string
		x  expr
	}
	notExpr  struct{ x expr }
	boolExpr struct {
		op   string // and / or
		l, r expr
	}
	compareExpr struct {
		first expr
		ops   []string
		rest  []expr
	}
	ifExpr     struct{ cond, a, b expr }
	lambdaExpr struct {
		params []string
		body   expr
	}
	callExpr struct {
		fn       expr
		args     []expr
		kwNames  []string
		kwValues []expr
	}
	attrExpr struct {
		x    expr
		name string
	}
	indexExpr struct{ x, index expr }
	sliceExpr struct{ x, lo, hi, step expr } // nil 表示省略
	compExpr  struct {
		kind    string // list / set / dict
		key     expr   // 仅 dict
		elt     expr
		clauses []compClause
	}
)

type compClause struct {
	target expr
	iter   expr
	conds  []expr
}

type stmt interface{}

type (
	defStmt struct {
		name   string
		params []param
		body   []stmt
		line   int
	}
	ifStmt struct {
		cond   expr
		body   []stmt
		orelse []stmt
		line   int
	}
	whileStmt struct {
		cond expr
		body []stmt
		line int
	}
	forStmt struct {
		target expr
		iter   expr
		body   []stmt
		line   int
	}
	returnStmt struct {
		value expr // nil 表示 return None
		line  int
	}
	assignStmt struct {
		targets []expr
		value   expr
		line    int
	}
	augAssignStmt struct {
		target expr
		op     string // 不含 "="
		value  expr
		line   int
	}
	exprStmt     struct{ x expr }
	delStmt      struct{ targets []expr }
	passStmt     struct{}
	breakStmt    struct{ line int }
	continueStmt struct{ line int }
)

type param struct {
	name string
	def  expr
}

// ---- 语句 ----

type blockParser struct {
	lines []logicalLine
	pos   int
}

// parseModule 解析整个模块
func parseModule(lines []logicalLine) ([]stmt, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	if lines[0].indent != 0 {
		return nil, syntaxErr(lines[0].line, "unexpected indent")
	}
	b := &blockParser{lines: lines}
	body, err := b.block(0, 0)
	if err != nil {
		return nil, err
	}
	if b.pos < len(b.lines) {
		return nil, syntaxErr(b.lines[b.pos].line, "unindent does not match any outer indentation level")
	}
	return body, nil
}

// block 解析同一缩进层级的语句
func (b *blockParser) block(indent, depth int) ([]stmt, error) {
	var out []stmt
	for b.pos < len(b.lines) {
		ln := b.lines[b.pos]
		if ln.indent < indent {
			break
		}
		if ln.indent > indent {
			return nil, syntaxErr(ln.line, "unexpected indent")
		}
		s, err := b.statement(depth)
		if err != nil {
			return nil, err
		}
		out = append(out, s...)
	}
	return out, nil
}

// suite 解析冒号之后的语句体：同一行的简单语句或下一层缩进的块
func (b *blockParser) suite(ln logicalLine, rest []token, depth int) ([]stmt, error) {
	if len(rest) > 0 {
		return parseSimple(rest, ln.line, depth)
	}
	if b.pos >= len(b.lines) || b.lines[b.pos].indent <= ln.indent {
		return nil, syntaxErr(ln.line, "expected an indented block")
	}
	return b.block(b.lines[b.pos].indent, depth)
}

func (b *blockParser) statement(depth int) ([]stmt, error) {
	ln := b.lines[b.pos]
	b.pos++
	first := ln.toks[0]

	if first.kind == tokOp && first.text == "@" {
		return nil, unsupportedErr(ln.line, "decorators are not supported")
	}
	if first.kind != tokKeyword {
		return parseSimple(ln.toks, ln.line, depth)
	}
	if pyUnsupported[first.text] {
		return nil, unsupportedErr(ln.line, "'%s' is not supported", first.text)
	}

	switch first.text {
	case "def":
		if depth > 0 {
			return nil, unsupportedErr(ln.line, "nested functions are not supported")
		}
		return b.def(ln)

	case "if":
		s, err := b.ifChain(ln, depth)
		if err != nil {
			return nil, err
		}
		return []stmt{s}, nil

	case "while":
		p := newParser(ln.toks[1:], ln.line)
		cond, err := p.test()
		if err != nil {
			return nil, err
		}
		rest, err := p.header()
		if err != nil {
			return nil, err
		}
		body, err := b.suite(ln, rest, depth)
		if err != nil {
			return nil, err
		}
		if err := b.rejectLoopElse(ln.indent); err != nil {
			return nil, err
		}
		return []stmt{&whileStmt{cond: cond, body: body, line: ln.line}}, nil

	case "for":
		p := newParser(ln.toks[1:], ln.line)
		target, err := p.targetList()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		iter, err := p.testList()
		if err != nil {
			return nil, err
		}
		rest, err := p.header()
		if err != nil {
			return nil, err
		}
		body, err := b.suite(ln, rest, depth)
		if err != nil {
			return nil, err
		}
		if err := b.rejectLoopElse(ln.indent); err != nil {
			return nil, err
		}
		return []stmt{&forStmt{target: target, iter: iter, body: body, line: ln.line}}, nil

	case "elif", "else":
		return nil, syntaxErr(ln.line, "'%s' without matching 'if'", first.text)
	}
	return parseSimple(ln.toks, ln.line, depth)
}

func (b *blockParser) rejectLoopElse(indent int) error {
	if b.pos < len(b.lines) {
		next := b.lines[b.pos]
		if next.indent == indent && next.toks[0].kind == tokKeyword && next.toks[0].text == "else" {
			return unsupportedErr(next.line, "'else' on loops is not supported")
		}
	}
	return nil
}

func (b *blockParser) ifChain(ln logicalLine, depth int) (*ifStmt, error) {
	p := newParser(ln.toks[1:], ln.line)
	cond, err := p.test()
	if err != nil {
		return nil, err
	}
	rest, err := p.header()
	if err != nil {
		return nil, err
	}
	body, err := b.suite(ln, rest, depth)
	if err != nil {
		return nil, err
	}
	s := &ifStmt{cond: cond, body: body, line: ln.line}

	if b.pos >= len(b.lines) {
		return s, nil
	}
	next := b.lines[b.pos]
	if next.indent != ln.indent || next.toks[0].kind != tokKeyword {
		return s, nil
	}
	switch next.toks[0].text {
	case "elif":
		b.pos++
		elif, err := b.ifChain(next, depth)
		if err != nil {
			return nil, err
		}
		s.orelse = []stmt{elif}
	case "else":
		b.pos++
		p := newParser(next.toks[1:], next.line)
		rest, err := p.header()
		if err != nil {
			return nil, err
		}
		s.orelse, err = b.suite(next, rest, depth)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (b *blockParser) def(ln logicalLine) ([]stmt, error) {
	p := newParser(ln.toks[1:], ln.line)
	name := p.next()
	if name.kind != tokName {
		return nil, syntaxErr(ln.line, "expected function name")
	}
	if err := p.expectOp("("); err != nil {
		return nil, err
	}

	var params []param
	for !p.isOp(")") {
		if p.isOp("*") || p.isOp("**") || p.isOp("/") {
			return nil, unsupportedErr(ln.line, "variadic or positional-only parameters are not supported")
		}
		t := p.next()
		if t.kind != tokName {
			return nil, syntaxErr(ln.line, "expected parameter name")
		}
		prm := param{name: t.text}
		if p.acceptOp(":") {
			// 类型注解忽略
			if _, err := p.test(); err != nil {
				return nil, err
			}
		}
		if p.acceptOp("=") {
			def, err := p.test()
			if err != nil {
				return nil, err
			}
			prm.def = def
		}
		params = append(params, prm)
		if !p.acceptOp(",") {
			break
		}
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	if p.acceptOp("->") {
		if _, err := p.test(); err != nil {
			return nil, err
		}
	}
	rest, err := p.header()
	if err != nil {
		return nil, err
	}
	body, err := b.suite(ln, rest, 1)
	if err != nil {
		return nil, err
	}
	return []stmt{&defStmt{name: name.text, params: params, body: body, line: ln.line}}, nil
}

// parseSimple 解析一行中以分号分隔的简单语句
func parseSimple(toks []token, line, depth int) ([]stmt, error) {
	p := newParser(toks, line)
	var out []stmt
	for {
		s, err := p.simpleStatement(depth)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
		if !p.acceptOp(";") || p.atEnd() {
			break
		}
	}
	if !p.atEnd() {
		return nil, syntaxErr(line, "invalid syntax near %q", p.peek().text)
	}
	return out, nil
}

func (p *exprParser) simpleStatement(depth int) (stmt, error) {
	t := p.peek()
	if t.kind == tokKeyword {
		if pyUnsupported[t.text] {
			return nil, unsupportedErr(p.line, "'%s' is not supported", t.text)
		}
		switch t.text {
		case "pass":
			p.next()
			return &passStmt{}, nil
		case "break":
			p.next()
			return &breakStmt{line: p.line}, nil
		case "continue":
			p.next()
			return &continueStmt{line: p.line}, nil
		case "return":
			p.next()
			if depth == 0 {
				return nil, syntaxErr(p.line, "'return' outside function")
			}
			if p.atEnd() || p.isOp(";") {
				return &returnStmt{line: p.line}, nil
			}
			v, err := p.testList()
			if err != nil {
				return nil, err
			}
			return &returnStmt{value: v, line: p.line}, nil
		case "del":
			p.next()
			target, err := p.targetList()
			if err != nil {
				return nil, err
			}
			targets := []expr{target}
			if tup, ok := target.(*tupleExpr); ok {
				targets = tup.elts
			}
			for _, t := range targets {
				if _, ok := t.(*indexExpr); !ok {
					return nil, unsupportedErr(p.line, "del only supports subscripts")
				}
			}
			return &delStmt{targets: targets}, nil
		case "def", "if", "while", "for", "elif", "else":
			return nil, syntaxErr(p.line, "'%s' must start its own line", t.text)
		}
	}

	first, err := p.testList()
	if err != nil {
		return nil, err
	}

	// 带类型注解的赋值：x: int = 0
	if p.isOp(":") {
		if _, ok := first.(*nameExpr); !ok {
			return nil, syntaxErr(p.line, "illegal target for annotation")
		}
		p.next()
		if _, err := p.test(); err != nil {
			return nil, err
		}
		if !p.acceptOp("=") {
			return &passStmt{}, nil
		}
		value, err := p.testList()
		if err != nil {
			return nil, err
		}
		return &assignStmt{targets: []expr{first}, value: value, line: p.line}, nil
	}

	if op := p.peek(); op.kind == tokOp && isAugAssign(op.text) {
		p.next()
		if err := checkTarget(first, p.line, false); err != nil {
			return nil, err
		}
		value, err := p.testList()
		if err != nil {
			return nil, err
		}
		return &augAssignStmt{target: first, op: op.text[:len(op.text)-1], value: value, line: p.line}, nil
	}

	if !p.isOp("=") {
		return &exprStmt{x: first}, nil
	}

	exprs := []expr{first}
	for p.acceptOp("=") {
		v, err := p.testList()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, v)
	}
	targets := exprs[:len(exprs)-1]
	for _, t := range targets {
		if err := checkTarget(t, p.line, true); err != nil {
			return nil, err
		}
	}
	return &assignStmt{targets: targets, value: exprs[len(exprs)-1], line: p.line}, nil
}

func isAugAssign(op string) bool {
	switch op {
	case "+=", "-=", "*=", "/=", "//=", "%=", "**=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

// checkTarget 校验赋值目标：名字、下标，或（非增量赋值时）二者组成的元组
func checkTarget(t expr, line int, allowTuple bool) error {
	switch t := t.(type) {
	case *nameExpr, *indexExpr:
		return nil
	case *tupleExpr:
		if allowTuple {
			for _, e := range t.elts {
				if err := checkTarget(e, line, true); err != nil {
					return err
				}
			}
			return nil
		}
	case *listExpr:
		if allowTuple {
			for _, e := range t.elts {
				if err := checkTarget(e, line, true); err != nil {
					return err
				}
			}
			return nil
		}
	case *sliceExpr:
		return unsupportedErr(line, "slice assignment is not supported")
	case *attrExpr:
		return unsupportedErr(line, "attribute assignment is not supported")
	}
	return syntaxErr(line, "cannot assign to expression")
}

// ---- 表达式 ----

type exprParser struct {
	toks []token
	pos  int
	line int
}

func newParser(toks []token, line int) *exprParser {
	return &exprParser{toks: toks, line: line}
}

func (p *exprParser) peek() token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token{kind: tokEOF, line: p.line}
}

func (p *exprParser) peekAt(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return token{kind: tokEOF, line: p.line}
}

func (p *exprParser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *exprParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *exprParser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *exprParser) isKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokKeyword && t.text == kw
}

func (p *exprParser) acceptOp(op string) bool {
	if p.isOp(op) {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) expectOp(op string) error {
	if !p.acceptOp(op) {
		return syntaxErr(p.line, "expected %q", op)
	}
	return nil
}

func (p *exprParser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return syntaxErr(p.line, "expected '%s'", kw)
	}
	return nil
}

// header 读取复合语句头部末尾的冒号，返回同一行剩余的 token
func (p *exprParser) header() ([]token, error) {
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	return p.toks[p.pos:], nil
}

// startsExpr 判断当前 token 能否开始一个表达式
func (p *exprParser) startsExpr() bool {
	t := p.peek()
	switch t.kind {
	case tokName, tokNumber, tokString:
		return true
	case tokKeyword:
		switch t.text {
		case "True", "False", "None", "not", "lambda":
			return true
		}
	case tokOp:
		switch t.text {
		case "(", "[", "{", "-", "+", "~":
			return true
		}
	}
	return false
}

// testList 逗号分隔的表达式，多于一个时组成元组
func (p *exprParser) testList() (expr, error) {
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		return first, nil
	}
	elts := []expr{first}
	for p.acceptOp(",") {
		if !p.startsExpr() {
			break
		}
		e, err := p.test()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return &tupleExpr{elts: elts}, nil
}

// targetList for 循环的目标（不吞掉 in）
func (p *exprParser) targetList() (expr, error) {
	first, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		return first, checkTarget(first, p.line, true)
	}
	elts := []expr{first}
	for p.acceptOp(",") {
		if !p.startsExpr() {
			break
		}
		e, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	t := &tupleExpr{elts: elts}
	return t, checkTarget(t, p.line, true)
}

func (p *exprParser) test() (expr, error) {
	if p.acceptKeyword("lambda") {
		return p.lambda()
	}
	x, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.acceptKeyword("if") {
		return x, nil
	}
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	y, err := p.test()
	if err != nil {
		return nil, err
	}
	return &ifExpr{cond: cond, a: x, b: y}, nil
}

func (p *exprParser) lambda() (expr, error) {
	var params []string
	for !p.isOp(":") {
		t := p.next()
		if t.kind != tokName {
			return nil, unsupportedErr(p.line, "only simple lambda parameters are supported")
		}
		params = append(params, t.text)
		if !p.acceptOp(",") {
			break
		}
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	body, err := p.test()
	if err != nil {
		return nil, err
	}
	return &lambdaExpr{params: params, body: body}, nil
}

func (p *exprParser) or() (expr, error) {
	x, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("or") {
		y, err := p.and()
		if err != nil {
			return nil, err
		}
		x = &boolExpr{op: "or", l: x, r: y}
	}
	return x, nil
}

func (p *exprParser) and() (expr, error) {
	x, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("and") {
		y, err := p.not()
		if err != nil {
			return nil, err
		}
		x = &boolExpr{op: "and", l: x, r: y}
	}
	return x, nil
}

func (p *exprParser) not() (expr, error) {
	if p.acceptKeyword("not") {
		x, err := p.not()
		if err != nil {
			return nil, err
		}
		return &notExpr{x: x}, nil
	}
	return p.comparison()
}

func (p *exprParser) compareOp() string {
	t := p.peek()
	switch {
	case t.kind == tokOp:
		switch t.text {
		case "<", ">", "==", "!=", "<=", ">=":
			p.next()
			return t.text
		}
	case t.kind == tokKeyword && t.text == "in":
		p.next()
		return "in"
	case t.kind == tokKeyword && t.text == "not" && p.peekAt(1).kind == tokKeyword && p.peekAt(1).text == "in":
		p.pos += 2
		return "not in"
	case t.kind == tokKeyword && t.text == "is":
		p.next()
		if p.acceptKeyword("not") {
			return "is not"
		}
		return "is"
	}
	return ""
}

func (p *exprParser) comparison() (expr, error) {
	first, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	var ops []string
	var rest []expr
	for {
		op := p.compareOp()
		if op == "" {
			break
		}
		y, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		rest = append(rest, y)
	}
	if len(ops) == 0 {
		return first, nil
	}
	return &compareExpr{first: first, ops: ops, rest: rest}, nil
}

// binaryLevel 左结合的二元运算层级
func (p *exprParser) binaryLevel(ops []string, next func() (expr, error)) (expr, error) {
	x, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		for _, op := range ops {
			if p.isOp(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return x, nil
		}
		p.next()
		y, err := next()
		if err != nil {
			return nil, err
		}
		x = &binExpr{op: matched, l: x, r: y}
	}
}

func (p *exprParser) bitOr() (expr, error)  { return p.binaryLevel([]string{"|"}, p.bitXor) }
func (p *exprParser) bitXor() (expr, error) { return p.binaryLevel([]string{"^"}, p.bitAnd) }
func (p *exprParser) bitAnd() (expr, error) { return p.binaryLevel([]string{"&"}, p.shift) }
func (p *exprParser) shift() (expr, error)  { return p.binaryLevel([]string{"<<", ">>"}, p.arith) }
func (p *exprParser) arith() (expr, error)  { return p.binaryLevel([]string{"+", "-"}, p.term) }
func (p *exprParser) term() (expr, error) {
	if p.isOp("@") {
		return nil, unsupportedErr(p.line, "matrix multiplication is not supported")
	}
	return p.binaryLevel([]string{"*", "//", "/", "%"}, p.factor)
}

func (p *exprParser) factor() (expr, error) {
	for _, op := range []string{"-", "+", "~"} {
		if p.acceptOp(op) {
			x, err := p.factor()
			if err != nil {
				return nil, err
			}
			return &unaryExpr{op: op, x: x}, nil
		}
	}
	return p.power()
}

func (p *exprParser) power() (expr, error) {
	x, err := p.atomExpr()
	if err != nil {
		return nil, err
	}
	if p.acceptOp("**") {
		// 右结合，且比左侧一元运算符绑定更紧
		y, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &binExpr{op: "**", l: x, r: y}, nil
	}
	return x, nil
}

func (p *exprParser) atomExpr() (expr, error) {
	x, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.acceptOp("("):
			call, err := p.callArgs(x)
			if err != nil {
				return nil, err
			}
			x = call
		case p.acceptOp("["):
			sub, err := p.subscript(x)
			if err != nil {
				return nil, err
			}
			x = sub
		case p.acceptOp("."):
			t := p.next()
			if t.kind != tokName {
				return nil, syntaxErr(p.line, "expected attribute name")
			}
			x = &attrExpr{x: x, name: t.text}
		default:
			return x, nil
		}
	}
}

func (p *exprParser) callArgs(fn expr) (expr, error) {
	call := &callExpr{fn: fn}
	for !p.isOp(")") {
		if p.isOp("*") || p.isOp("**") {
			return nil, unsupportedErr(p.line, "argument unpacking is not supported")
		}
		if p.peek().kind == tokName && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "=" {
			name := p.next().text
			p.next()
			v, err := p.test()
			if err != nil {
				return nil, err
			}
			call.kwNames = append(call.kwNames, name)
			call.kwValues = append(call.kwValues, v)
		} else {
			if len(call.kwNames) > 0 {
				return nil, syntaxErr(p.line, "positional argument follows keyword argument")
			}
			v, err := p.test()
			if err != nil {
				return nil, err
			}
			if p.isKeyword("for") {
				// 生成器表达式按列表处理
				comp, err := p.comprehension("list", nil, v)
				if err != nil {
					return nil, err
				}
				v = comp
			}
			call.args = append(call.args, v)
		}
		if !p.acceptOp(",") {
			break
		}
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *exprParser) subscript(x expr) (expr, error) {
	var parts [3]expr
	idx := 0
	isSlice := false
	for {
		if !p.isOp(":") && !p.isOp("]") {
			e, err := p.test()
			if err != nil {
				return nil, err
			}
			if idx == 0 && !isSlice && p.isOp(",") {
				elts := []expr{e}
				for p.acceptOp(",") {
					if p.isOp("]") {
						break
					}
					e, err := p.test()
					if err != nil {
						return nil, err
					}
					elts = append(elts, e)
				}
				e = &tupleExpr{elts: elts}
			}
			parts[idx] = e
		}
		if !p.acceptOp(":") {
			break
		}
		isSlice = true
		idx++
		if idx > 2 {
			return nil, syntaxErr(p.line, "invalid slice")
		}
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	if isSlice {
		return &sliceExpr{x: x, lo: parts[0], hi: parts[1], step: parts[2]}, nil
	}
	if parts[0] == nil {
		return nil, syntaxErr(p.line, "empty subscript")
	}
	return &indexExpr{x: x, index: parts[0]}, nil
}

func (p *exprParser) atom() (expr, error) {
	t := p.peek()
	switch t.kind {
	case tokName:
		p.next()
		return &nameExpr{id: t.text}, nil

	case tokNumber:
		p.next()
		return &numExpr{text: t.text}, nil

	case tokString:
		p.next()
		value := t.text
		// 相邻字符串拼接
		for p.peek().kind == tokString {
			value += p.next().text
		}
		return &strExpr{value: value}, nil

	case tokKeyword:
		switch t.text {
		case "True", "False", "None":
			p.next()
			return &constExpr{value: t.text}, nil
		}
		if pyUnsupported[t.text] {
			return nil, unsupportedErr(p.line, "'%s' is not supported", t.text)
		}

	case tokOp:
		switch t.text {
		case "(":
			p.next()
			return p.parenthesized()
		case "[":
			p.next()
			return p.listDisplay()
		case "{":
			p.next()
			return p.braceDisplay()
		case "*":
			return nil, unsupportedErr(p.line, "star expressions are not supported")
		}

	case tokEOF:
		return nil, syntaxErr(p.line, "unexpected end of line")
	}
	return nil, syntaxErr(p.line, "invalid syntax near %q", t.text)
}

func (p *exprParser) parenthesized() (expr, error) {
	if p.acceptOp(")") {
		return &tupleExpr{}, nil
	}
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("for") {
		comp, err := p.comprehension("list", nil, first)
		if err != nil {
			return nil, err
		}
		return comp, p.expectOp(")")
	}
	if !p.isOp(",") {
		return first, p.expectOp(")")
	}
	elts := []expr{first}
	for p.acceptOp(",") {
		if p.isOp(")") {
			break
		}
		e, err := p.test()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return &tupleExpr{elts: elts}, p.expectOp(")")
}

func (p *exprParser) listDisplay() (expr, error) {
	if p.acceptOp("]") {
		return &listExpr{}, nil
	}
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("for") {
		comp, err := p.comprehension("list", nil, first)
		if err != nil {
			return nil, err
		}
		return comp, p.expectOp("]")
	}
	elts := []expr{first}
	for p.acceptOp(",") {
		if p.isOp("]") {
			break
		}
		e, err := p.test()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return &listExpr{elts: elts}, p.expectOp("]")
}

func (p *exprParser) braceDisplay() (expr, error) {
	if p.acceptOp("}") {
		return &dictExpr{}, nil
	}
	if p.isOp("**") {
		return nil, unsupportedErr(p.line, "dict unpacking is not supported")
	}
	first, err := p.test()
	if err != nil {
		return nil, err
	}

	if !p.acceptOp(":") {
		// 集合
		if p.isKeyword("for") {
			comp, err := p.comprehension("set", nil, first)
			if err != nil {
				return nil, err
			}
			return comp, p.expectOp("}")
		}
		elts := []expr{first}
		for p.acceptOp(",") {
			if p.isOp("}") {
				break
			}
			e, err := p.test()
			if err != nil {
				return nil, err
			}
			elts = append(elts, e)
		}
		return &setExpr{elts: elts}, p.expectOp("}")
	}

	value, err := p.test()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("for") {
		comp, err := p.comprehension("dict", first, value)
		if err != nil {
			return nil, err
		}
		return comp, p.expectOp("}")
	}
	d := &dictExpr{keys: []expr{first}, values: []expr{value}}
	for p.acceptOp(",") {
		if p.isOp("}") {
			break
		}
		k, err := p.test()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(":"); err != nil {
			return nil, err
		}
		v, err := p.test()
		if err != nil {
			return nil, err
		}
		d.keys = append(d.keys, k)
		d.values = append(d.values, v)
	}
	return d, p.expectOp("}")
}

// comprehension 解析 for ... in ... [if ...] 子句
func (p *exprParser) comprehension(kind string, key, elt expr) (expr, error) {
	comp := &compExpr{kind: kind, key: key, elt: elt}
	for p.acceptKeyword("for") {
		target, err := p.targetList()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		iter, err := p.or()
		if err != nil {
			return nil, err
		}
		clause := compClause{target: target, iter: iter}
		for p.acceptKeyword("if") {
			cond, err := p.or()
			if err != nil {
				return nil, err
			}
			clause.conds = append(clause.conds, cond)
		}
		comp.clauses = append(comp.clauses, clause)
	}
	return comp, nil
}
