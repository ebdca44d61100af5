package mcp

var TruncateString = truncateString
