// Package lsp provides the client side of the ECCO language server
// extension requests.
//
// The ECCO server speaks JSON-RPC 2.0 with LSP Content-Length framing and
// adds three requests on top of the standard protocol:
//
//   - ecco/documentAssociations: the association of every fragment of a document
//   - ecco/documentFeatures: the feature set of every fragment of a document
//   - ecco/info: repository state (commits, features, configuration)
//
// Fragment ranges in the responses are sparse and single-line; package
// marking turns them into a complete partition of the document.
//
// # Quick Start
//
//	client, err := lsp.Dial(ctx, "localhost:5007")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	resp, err := client.DocumentAssociations(ctx, lsp.FilePathToURI("song.ly"))
//
// Starting and supervising the server process is left to the host editor;
// Connect accepts any io.ReadWriteCloser, such as a child process's pipes.
package lsp
