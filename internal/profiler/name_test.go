package profiler

import "testing"

func TestFuncNameRender(t *testing.T) {
	tests := []struct {
		name string
		fn   FuncName
		want string
	}{
		{
			name: "main chunk with line",
			fn:   FuncName{Source: "demo.lua", Line: 1, Domain: DomainChunk},
			want: "main chunk of demo.lua (demo.lua:1)",
		},
		{
			name: "main chunk without line",
			fn:   FuncName{Source: "stdin", Domain: DomainChunk},
			want: "main chunk of stdin (stdin)",
		},
		{
			name: "named global script function",
			fn:   FuncName{Name: "fib", Kind: "global", Source: "fib.lua", Line: 3, Domain: DomainScript},
			want: "global script function fib (fib.lua:3)",
		},
		{
			name: "named method",
			fn:   FuncName{Name: "update", Kind: "method", Source: "actor.lua", Line: 40, Domain: DomainScript},
			want: "method script function update (actor.lua:40)",
		},
		{
			name: "anonymous local function",
			fn:   FuncName{Kind: "local", Source: "fib.lua", Line: 10, Domain: DomainScript},
			want: "anonymous local script function (fib.lua:10)",
		},
		{
			name: "anonymous without kind",
			fn:   FuncName{Source: "x.lua", Line: 7, Domain: DomainScript},
			want: "anonymous script function (x.lua:7)",
		},
		{
			name: "named native function without line",
			fn:   FuncName{Name: "print", Source: "[builtin]", Domain: DomainNative},
			want: "native function print ([builtin])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn.Render(); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}
