package driver

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"njscore/pkg/builtins"
	"njscore/pkg/config"
	"njscore/pkg/errors"
	"njscore/pkg/lexer"
	"njscore/pkg/vm"
)

// Engine owns the builtin template and hands out VM instances cloned from
// it. The template is built once and only read afterwards, so an Engine
// may be shared between goroutines; each Realm it returns may not.
type Engine struct {
	cfg    *config.Config
	log    *zap.Logger
	pool   *vm.Pool
	tmpl   *vm.Template
	names  *lru.Cache // *vm.NativeFunction -> string
	order  builtins.Order
	locale language.Tag
}

// NewEngine builds the builtin template under cfg's arena limits. A nil
// cfg means config.Default(), a nil logger disables logging.
func NewEngine(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	order, ok := builtins.ParseOrder(cfg.Completions.Order)
	if !ok {
		return nil, &errors.InitError{Stage: "engine", Msg: "unknown completion order " + cfg.Completions.Order}
	}
	names, err := lru.New(cfg.Names.CacheSize)
	if err != nil {
		return nil, errors.NewInitError("engine", err)
	}

	pool := vm.NewPool(uint64(cfg.Arena.TemplateLimit))
	tmpl, err := builtins.BuildTemplate(pool)
	if err != nil {
		logger.Error("builtin template failed", zap.Error(err), zap.Stringer("limit", cfg.Arena.TemplateLimit))
		return nil, err
	}
	logger.Debug("builtin template ready",
		zap.String("size", humanize.IBytes(pool.Used())),
		zap.Int("namespaces", tmpl.NumNamespaces()),
		zap.Int("functions", tmpl.NumFunctions()))

	return &Engine{
		cfg:    cfg,
		log:    logger,
		pool:   pool,
		tmpl:   tmpl,
		names:  names,
		order:  order,
		locale: cfg.Locale(),
	}, nil
}

func (e *Engine) Template() *vm.Template { return e.tmpl }

// TemplateSize is the number of bytes the template took from its pool.
func (e *Engine) TemplateSize() uint64 { return e.pool.Used() }

// NewVM creates an instance with its own pool and a private copy of the
// builtins.
func (e *Engine) NewVM() (*vm.Realm, error) {
	r, err := vm.NewRealm(e.tmpl, vm.NewPool(uint64(e.cfg.Arena.RealmLimit)))
	if err == nil {
		err = r.CloneBuiltins()
	}
	if err != nil {
		e.log.Warn("vm creation failed", zap.Error(err))
		return nil, err
	}
	e.log.Debug("vm created",
		zap.String("realm", r.ID()),
		zap.String("size", humanize.IBytes(r.Pool().Used())))
	return r, nil
}

// Completions returns the completion candidates starting with prefix,
// allocated from r's pool. Failure yields no completions at all.
func (e *Engine) Completions(r *vm.Realm, prefix string) []string {
	list, err := builtins.Complete(e.tmpl, r.Pool(), prefix, e.order, e.locale)
	if err != nil {
		e.log.Warn("completions unavailable", zap.String("realm", r.ID()), zap.Error(err))
		return nil
	}
	return list
}

// CompleteLine completes the member chain ending at pos in line. It has
// the shape of a liner.WordCompleter: head and tail are the untouched
// parts of the line around the candidates.
func (e *Engine) CompleteLine(r *vm.Realm, line string, pos int) (head string, completions []string, tail string) {
	if pos < 0 || pos > len(line) {
		pos = len(line)
	}
	start, ref := lexer.TrailingReference(line[:pos])
	head, tail = line[:start], line[pos:]
	if ref == "" {
		return head, nil, tail
	}

	dot := strings.LastIndexByte(ref, '.')
	if dot < 0 {
		return head, e.topLevel(r, ref), tail
	}
	base, partial := ref[:dot], ref[dot+1:]
	v, ok := evalPath(r, base)
	if !ok {
		return head, nil, tail
	}
	for _, name := range memberNames(r, v) {
		if strings.HasPrefix(name, partial) {
			completions = append(completions, base+"."+name)
		}
	}
	return head, completions, tail
}

// topLevel lists keywords, globals and qualified builtin names that start
// with prefix. Prototype members (".name") are left to member completion.
func (e *Engine) topLevel(r *vm.Realm, prefix string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	add := func(s string) {
		if strings.HasPrefix(s, prefix) && seen.Add(s) {
			out = append(out, s)
		}
	}
	for _, s := range e.Completions(r, prefix) {
		if !strings.HasPrefix(s, ".") {
			add(s)
		}
	}
	for _, name := range r.Globals.Names() {
		add(name)
	}
	return out
}

// Lookup evaluates a dotted member chain such as "Array.prototype.join"
// against r's globals. Nothing but accessors runs.
func Lookup(r *vm.Realm, path string) (vm.Value, error) {
	parts := strings.Split(path, ".")
	v, ok := r.GetGlobal(parts[0])
	if !ok {
		return vm.Undefined, &errors.RuntimeError{Name: "ReferenceError", Msg: parts[0] + " is not defined"}
	}
	for _, name := range parts[1:] {
		var err error
		if v, err = r.Get(v, name); err != nil {
			return vm.Undefined, err
		}
	}
	return v, nil
}

func evalPath(r *vm.Realm, path string) (vm.Value, bool) {
	v, err := Lookup(r, path)
	if err != nil || v.IsUndefined() || v.IsNull() {
		return vm.Undefined, false
	}
	return v, true
}

// memberNames lists the property names visible on v, nearest first.
func memberNames(r *vm.Realm, v vm.Value) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var names []string
	visit := func(o vm.Object) {
		o.EachOwn(func(p vm.Property) bool {
			if seen.Add(p.Name()) && p.Kind() != vm.PropertyHidden {
				names = append(names, p.Name())
			}
			return true
		})
	}
	if v.IsObject() {
		visit(v.AsObject())
	}
	for p := r.GetPrototypeOf(v); p.IsObject(); p = r.GetPrototypeOf(p) {
		visit(p.AsObject())
	}
	return names
}

// FunctionName returns the qualified name of a builtin method, such as
// "Array.prototype.join", or "" when v is not one. Names are cached per
// engine; a miss is formatted into r's pool.
func (e *Engine) FunctionName(r *vm.Realm, v vm.Value) string {
	fn := v.AsNative()
	if fn == nil {
		return ""
	}
	if name, ok := e.names.Get(fn); ok {
		return name.(string)
	}
	name, ok, err := builtins.ResolveName(e.tmpl, r.Pool(), fn)
	if err != nil {
		e.log.Debug("name unavailable", zap.String("function", fn.Name()), zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	e.names.Add(fn, name)
	return name
}
