package models

type contextKey string

const UserContextKey contextKey = "requester"
