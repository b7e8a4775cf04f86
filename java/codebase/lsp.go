package codebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/jgen/codegen"
	"github.com/dhamidi/jgen/java"
)

const lsName = "jgen"

// Client is the part of the editor the server talks back to.
type Client interface {
	ShowMessageRequest(params *protocol.ShowMessageRequestParams) (*protocol.MessageActionItem, error)
	ApplyEdit(params *protocol.ApplyWorkspaceEditParams) (*protocol.ApplyWorkspaceEditResponse, error)
}

type glspClient struct {
	ctx *glsp.Context
}

func (c glspClient) ShowMessageRequest(params *protocol.ShowMessageRequestParams) (*protocol.MessageActionItem, error) {
	var item *protocol.MessageActionItem
	c.ctx.Call("window/showMessageRequest", params, &item)
	return item, nil
}

func (c glspClient) ApplyEdit(params *protocol.ApplyWorkspaceEditParams) (*protocol.ApplyWorkspaceEditResponse, error) {
	var response protocol.ApplyWorkspaceEditResponse
	c.ctx.Call("workspace/applyEdit", params, &response)
	return &response, nil
}

// lspCommands maps workspace/executeCommand names to generation commands.
var lspCommands = map[string]codegen.Command{
	"jgen.generateFields":            codegen.CommandFields,
	"jgen.generateMethod":            codegen.CommandMethod,
	"jgen.generateImport":            codegen.CommandImport,
	"jgen.generateMethodInvocations": codegen.CommandMethodInvocations,
	"jgen.generateGetterInvocations": codegen.CommandGetterInvocations,
	"jgen.generateSetterInvocations": codegen.CommandSetterInvocations,
}

var commandTitles = map[codegen.Command]string{
	codegen.CommandFields:            "Generate fields",
	codegen.CommandMethod:            "Generate method",
	codegen.CommandImport:            "Add import",
	codegen.CommandMethodInvocations: "Generate method invocations",
	codegen.CommandGetterInvocations: "Generate getter invocations",
	codegen.CommandSetterInvocations: "Generate setter invocations",
}

func lspCommandName(cmd codegen.Command) string {
	for name, c := range lspCommands {
		if c == cmd {
			return name
		}
	}
	return ""
}

// CommandArgs is the single argument of every jgen.* command. A command
// whose specification is missing is treated as cancelled.
type CommandArgs struct {
	URI      string              `json:"uri"`
	Position protocol.Position   `json:"position"`
	Fields   []codegen.FieldSpec `json:"fields,omitempty"`
	Method   *codegen.MethodSpec `json:"method,omitempty"`
	Import   *codegen.ImportSpec `json:"import,omitempty"`
	Symbol   string              `json:"symbol,omitempty"`
}

type ServerOptions struct {
	Version   string
	Generator codegen.Options
	// Roots are source directories indexed besides the workspace.
	Roots          []string
	SourceArchives []string
	// Watch keeps the index in sync with files changed outside the
	// editor.
	Watch bool
}

type LSPServer struct {
	opts     ServerOptions
	codebase *Codebase
	watcher  *Watcher
	cancel   context.CancelFunc
	handler  protocol.Handler
	server   *server.Server
}

func NewLSPServer(opts ServerOptions) *LSPServer {
	ls := &LSPServer{opts: opts, codebase: New()}

	ls.handler = protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		SetTrace:                ls.setTrace,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		TextDocumentDidSave:     ls.textDocumentDidSave,
		TextDocumentCodeAction:  ls.textDocumentCodeAction,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase is the index the server generates against.
func (ls *LSPServer) Codebase() *Codebase {
	return ls.codebase
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	ls.codebase = New(append([]string{rootDir}, ls.opts.Roots...)...)

	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = true
	commands := make([]string, 0, len(lspCommands))
	for _, cmd := range codegen.Commands {
		commands = append(commands, lspCommandName(cmd))
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{Commands: commands}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.opts.Version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("scan: %s", err)
	}
	for _, archive := range ls.opts.SourceArchives {
		if err := ls.codebase.ScanArchive(archive); err != nil {
			log.Errorf("scan %s: %s", archive, err)
		}
	}
	if !ls.opts.Watch {
		return nil
	}
	w, err := NewWatcher(ls.codebase)
	if err != nil {
		log.Errorf("watch: %s", err)
		return nil
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	ls.watcher, ls.cancel = w, cancel
	go w.Run(watchCtx)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.cancel()
		return ls.watcher.Close()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(whole.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	return ls.CodeActions(params.TextDocument.URI, params.Range.Start), nil
}

// CodeActions lists the generation commands that apply at pos.
func (ls *LSPServer) CodeActions(uri string, pos protocol.Position) []protocol.CodeAction {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	f, err := ls.codebase.Snapshot(path)
	if err != nil {
		return nil
	}
	caret := OffsetOf(f.Source, pos)
	kind := protocol.CodeActionKindSource
	var actions []protocol.CodeAction
	for _, cmd := range codegen.Commands {
		if !codegen.IsCommandApplicable(f.Root, caret, cmd) {
			continue
		}
		actions = append(actions, protocol.CodeAction{
			Title: commandTitles[cmd],
			Kind:  &kind,
			Command: &protocol.Command{
				Title:     commandTitles[cmd],
				Command:   lspCommandName(cmd),
				Arguments: []any{CommandArgs{URI: uri, Position: pos}},
			},
		})
	}
	return actions
}

func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if _, ok := lspCommands[params.Command]; !ok {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	if len(params.Arguments) != 1 {
		return nil, fmt.Errorf("%s: want one argument, got %d", params.Command, len(params.Arguments))
	}
	var args CommandArgs
	if err := remarshal(params.Arguments[0], &args); err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}
	// The generation may wait on the client, which cannot answer while
	// this request is pending.
	go func() {
		if err := ls.Execute(context.Background(), glspClient{ctx}, params.Command, args); err != nil {
			log.Errorf("%s: %s", params.Command, err)
		}
	}()
	return nil, nil
}

// Execute runs the generation command name and sends its edits to client.
func (ls *LSPServer) Execute(ctx context.Context, client Client, name string, args CommandArgs) error {
	cmd, ok := lspCommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	path, err := uriToPath(args.URI)
	if err != nil {
		return err
	}
	f, err := ls.codebase.Snapshot(path)
	if err != nil {
		return err
	}
	caret := OffsetOf(f.Source, args.Position)
	g := codegen.NewGenerator(&lspDialog{args: args, client: client}, ls.opts.Generator)
	result, err := g.Run(ctx, cmd, f, caret)
	if err != nil || result == nil {
		return err
	}

	edits := make([]protocol.TextEdit, 0, len(result.Edits))
	for _, e := range result.Edits {
		edits = append(edits, protocol.TextEdit{
			Range: protocol.Range{
				Start: PositionOf(result.Before, e.Offset),
				End:   PositionOf(result.Before, e.Offset+e.Length),
			},
			NewText: e.Text,
		})
	}
	label := commandTitles[cmd]
	response, err := client.ApplyEdit(&protocol.ApplyWorkspaceEditParams{
		Label: &label,
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{args.URI: edits},
		},
	})
	if err != nil {
		return err
	}
	if response == nil || !response.Applied {
		log.Warningf("%s on %s: client rejected transaction %s", name, path, result.ID)
		return nil
	}
	return ls.codebase.UpdateFile(path, result.After)
}

// lspDialog answers from the command arguments and asks the client only
// for the member choice.
type lspDialog struct {
	args   CommandArgs
	client Client
}

func (d *lspDialog) Fields(context.Context) ([]codegen.FieldSpec, error) {
	if len(d.args.Fields) == 0 {
		return nil, codegen.ErrCancelled
	}
	return d.args.Fields, nil
}

func (d *lspDialog) Method(context.Context, codegen.ScopeKind) (codegen.MethodSpec, error) {
	if d.args.Method == nil {
		return codegen.MethodSpec{}, codegen.ErrCancelled
	}
	return *d.args.Method, nil
}

func (d *lspDialog) Import(context.Context) (codegen.ImportSpec, error) {
	if d.args.Import == nil {
		return codegen.ImportSpec{}, codegen.ErrCancelled
	}
	return *d.args.Import, nil
}

func (d *lspDialog) Member(_ context.Context, candidates []java.Symbol) (java.Symbol, error) {
	name := d.args.Symbol
	if name == "" {
		actions := make([]protocol.MessageActionItem, 0, len(candidates))
		for _, c := range candidates {
			actions = append(actions, protocol.MessageActionItem{Title: c.Name})
		}
		item, err := d.client.ShowMessageRequest(&protocol.ShowMessageRequestParams{
			Type:    protocol.MessageTypeInfo,
			Message: "Invoke the methods of",
			Actions: actions,
		})
		if err != nil {
			return java.Symbol{}, err
		}
		if item == nil {
			return java.Symbol{}, codegen.ErrCancelled
		}
		name = item.Title
	}
	for _, c := range candidates {
		if c.Name == name {
			return c, nil
		}
	}
	return java.Symbol{}, codegen.ErrCancelled
}

func remarshal(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
