package api

// GraphQL documents for the fixed operation set the backend exposes. The
// fragments mirror the backend schema; field names here are contract, not
// style.

const productFields = `
  fragment ProductFields on Product {
    id
    name
    description
    price
    imageUrl
    available
    preparationTime
    restaurantId
    category {
      id
      name
      description
    }
    variants {
      size
      price
      imageUrl
    }
  }
`

const orderFields = `
  fragment OrderFields on Order {
    id
    restaurantId
    customer {
      name
      phone
      email
    }
    products {
      id
      name
      quantity
      price
      total
    }
    total
    paymentMethod
    deliveryMethod
    mesa
    deliveryAddress
    status
    createdAt
    updatedAt
  }
`

const categoryFields = `
  fragment CategoryFields on Category {
    id
    name
    description
  }
`

const queryGetProducts = productFields + `
  query GetProducts($restaurantId: String!) {
    products(restaurantId: $restaurantId) {
      ...ProductFields
    }
  }
`

const queryGetProduct = productFields + `
  query GetProduct($productId: String!) {
    product(productId: $productId) {
      ...ProductFields
    }
  }
`

const queryGetCategories = categoryFields + `
  query GetCategories($restaurantId: String!) {
    categories(restaurantId: $restaurantId) {
      ...CategoryFields
    }
  }
`

const queryGetOrders = orderFields + `
  query GetOrders($restaurantId: String!, $status: String, $limit: Int) {
    orders(restaurantId: $restaurantId, status: $status, limit: $limit) {
      ...OrderFields
    }
  }
`

const queryGetRestaurantStats = `
  query GetRestaurantStats($restaurantId: String!) {
    restaurantStats(restaurantId: $restaurantId) {
      restaurantId
      totalOrders
      totalRevenue
      pendingOrders
      preparingOrders
      statusBreakdown
    }
  }
`

const mutationCreateProduct = `
  mutation CreateProduct($input: CreateProductInput!) {
    createProduct(input: $input) {
      success
      message
      id
    }
  }
`

const mutationUpdateProduct = `
  mutation UpdateProduct($productId: String!, $input: UpdateProductInput!) {
    updateProduct(productId: $productId, input: $input) {
      success
      message
      id
    }
  }
`

const mutationDeleteProduct = `
  mutation DeleteProduct($productId: String!) {
    deleteProduct(productId: $productId) {
      success
      message
      id
    }
  }
`

const mutationCreateCategory = `
  mutation CreateCategory($input: CreateCategoryInput!) {
    createCategory(input: $input) {
      success
      message
      id
    }
  }
`

const mutationCreateOrder = `
  mutation CreateOrder($input: CreateOrderInput!) {
    createOrder(input: $input) {
      success
      message
      id
    }
  }
`

const mutationUpdateOrderStatus = `
  mutation UpdateOrderStatus($orderId: String!, $status: String!, $restaurantId: String!) {
    updateOrderStatus(orderId: $orderId, status: $status, restaurantId: $restaurantId) {
      success
      message
      id
    }
  }
`

const mutationAddProductToOrder = orderFields + `
  mutation AddProductToOrder($orderId: String!, $productId: String!, $quantity: Int!, $restaurantId: String!) {
    addProductToOrder(orderId: $orderId, productId: $productId, quantity: $quantity, restaurantId: $restaurantId) {
      success
      message
      order {
        ...OrderFields
      }
    }
  }
`

const mutationRemoveProductFromOrder = orderFields + `
  mutation RemoveProductFromOrder($orderId: String!, $productId: String!, $restaurantId: String!) {
    removeProductFromOrder(orderId: $orderId, productId: $productId, restaurantId: $restaurantId) {
      success
      message
      order {
        ...OrderFields
      }
    }
  }
`

const mutationUpdateProductQuantityInOrder = orderFields + `
  mutation UpdateProductQuantityInOrder($orderId: String!, $productId: String!, $quantity: Int!, $restaurantId: String!) {
    updateProductQuantityInOrder(orderId: $orderId, productId: $productId, quantity: $quantity, restaurantId: $restaurantId) {
      success
      message
      order {
        ...OrderFields
      }
    }
  }
`
