package eatery

var CreateHandlerWithRecover = createHandlerWithRecover
